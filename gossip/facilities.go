package gossip

import (
	"net/netip"

	"github.com/maxpoletaev/clientcast/gossip/proto"
	"github.com/maxpoletaev/clientcast/gossip/transport"
)

// Transport moves gossip envelopes between nodes. The UDP implementation lives
// in the transport package; tests plug in an in-memory network.
type Transport interface {
	// WriteTo sends a single envelope to the node listening at addr.
	WriteTo(msg *proto.GossipMessage, addr netip.AddrPort) error

	// ReadFrom blocks until the next envelope arrives and decodes it into msg.
	// Once the transport is closed, it returns transport.ErrClosed.
	ReadFrom(msg *proto.GossipMessage) error

	// Close releases the socket and unblocks pending reads. It may be called
	// more than once.
	Close() error
}

var _ Transport = (*transport.UDPTransport)(nil)
