package transport

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/clientcast/gossip/proto"
)

const (
	maxPayloadSize    = 1500 // implied by MTU
	receiveBufferSize = 1 * 1024 * 1024
)

var (
	ErrClosed          = errors.New("connection closed")
	ErrMaxSizeExceeded = errors.New("max payload size exceeded")
)

type packet struct {
	len  int
	body []byte
}

func (p *packet) Body() []byte {
	return p.body[:p.len]
}

type UDPTransport struct {
	logger log.Logger
	conn   *net.UDPConn
	pool   *sync.Pool
	in     chan *packet
	done   chan struct{}
	closed int32
}

// Create starts a UDP listener on the given address along with a background
// process reading incoming packets.
func Create(addr netip.AddrPort, logger log.Logger) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", net.UDPAddrFromAddrPort(addr))
	if err != nil {
		return nil, fmt.Errorf("failed to listen udp port on %s: %w", addr, err)
	}

	// Set system buffer to larger size to reduce the number of packet drops
	// when the consumer is too busy to keep up with the incoming message rate.
	if err := conn.SetReadBuffer(receiveBufferSize); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to alter udp read buffer size: %w", err)
	}

	if logger == nil {
		logger = log.NewNopLogger()
	}

	t := &UDPTransport{
		logger: logger,
		conn:   conn,
		in:     make(chan *packet),
		done:   make(chan struct{}),
		pool: &sync.Pool{
			New: func() any {
				return &packet{
					body: make([]byte, maxPayloadSize),
				}
			},
		},
	}

	go t.consume()

	return t, nil
}

// LocalAddr returns the address the transport is listening on.
func (t *UDPTransport) LocalAddr() netip.AddrPort {
	return t.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

func (t *UDPTransport) consume() {
	const (
		initialDelay = 30 * time.Millisecond
		maxDelay     = 10 * time.Second
	)

	delay := initialDelay

	for {
		pkt := t.pool.Get().(*packet)

		n, addr, err := t.conn.ReadFromUDPAddrPort(pkt.body)
		if err != nil {
			t.pool.Put(pkt)

			if atomic.LoadInt32(&t.closed) == 1 {
				break
			}

			level.Error(t.logger).Log("msg", "failed to read from udp", "err", err)
			time.Sleep(delay)

			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}

			continue
		}

		delay = initialDelay

		if n == 0 {
			level.Warn(t.logger).Log("msg", "received empty udp packet", "from", addr)
			t.pool.Put(pkt)

			continue
		}

		pkt.len = n

		select {
		case t.in <- pkt:
		case <-t.done:
			return
		}
	}

	close(t.in)
}

func (t *UDPTransport) Close() error {
	if !atomic.CompareAndSwapInt32(&t.closed, 0, 1) {
		return nil
	}

	err := t.conn.Close()

	close(t.done)

	return err
}

// ReadFrom blocks until the next message is received and decodes it into msg.
// ErrClosed is returned once the transport is closed.
func (t *UDPTransport) ReadFrom(msg *proto.GossipMessage) error {
	var pkt *packet

	select {
	case pkt = <-t.in:
	case <-t.done:
	}

	if pkt == nil {
		return ErrClosed
	}

	defer t.pool.Put(pkt)

	if err := msg.Unmarshal(pkt.Body()); err != nil {
		return fmt.Errorf("failed to unmarshal gossip message: %w", err)
	}

	return nil
}

func (t *UDPTransport) WriteTo(msg *proto.GossipMessage, addr netip.AddrPort) error {
	pkt := t.pool.Get().(*packet)
	defer t.pool.Put(pkt)

	payload := msg.Marshal(pkt.body[:0])
	if len(payload) > maxPayloadSize {
		return ErrMaxSizeExceeded
	}

	if _, err := t.conn.WriteToUDPAddrPort(payload, addr); err != nil {
		if atomic.LoadInt32(&t.closed) == 1 {
			return ErrClosed
		}

		return fmt.Errorf("failed to send message to udp socket: %w", err)
	}

	return nil
}
