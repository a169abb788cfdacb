package gossip

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/netip"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/slices"

	"github.com/maxpoletaev/clientcast/gossip/proto"
	"github.com/maxpoletaev/clientcast/gossip/transport"
	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/internal/generic"
	"github.com/maxpoletaev/clientcast/internal/multierror"
	"github.com/maxpoletaev/clientcast/internal/telemetry"
	"github.com/maxpoletaev/clientcast/membership"
)

var ErrNoSelfAddr = errors.New("gossiper requires the address of the local node")

// messageKey identifies a message originated by a node. The run ID changes
// every time the node restarts, so that the reset sequence number does not
// collide with the messages remembered by other nodes.
type messageKey struct {
	from  string
	runID uint32
	seq   uint64
}

type peerMap map[membership.NodeID]netip.AddrPort

// Gossiper is a peer-to-peer gossip protocol implementation. It maintains the
// list of peers messages are broadcasted to, relays broadcasts received from
// other nodes, and passes every new message to the delegate.
type Gossiper struct {
	self      membership.NodeID
	heartbeat heartbeat.Snapshot
	runID     uint32
	delegate  Delegate
	logger    log.Logger
	transport Transport

	gossipFactor int
	messageTTL   uint32
	lastSeqNum   uint64
	seen         *lru.Cache
	wg           sync.WaitGroup

	peersMut sync.RWMutex
	peers    peerMap
}

// Start initializes the gossiper struct with the given configuration
// and starts a background listener process accepting gossip messages.
func Start(conf *Config) (*Gossiper, error) {
	g, err := New(conf)
	if err != nil {
		return nil, err
	}

	g.StartListener()

	return g, nil
}

// New creates a gossiper without starting the listener, so that the delegate
// can be given a reference to it before the first message arrives.
func New(conf *Config) (*Gossiper, error) {
	if conf.Self == "" {
		return nil, ErrNoSelfAddr
	}

	if conf.Transport == nil {
		bindAddr := conf.BindAddr
		if bindAddr == "" {
			bindAddr = conf.Self.String()
		}

		addr, err := netip.ParseAddrPort(bindAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bind address (%s): %w", bindAddr, err)
		}

		tr, err := transport.Create(addr, conf.Logger)
		if err != nil {
			return nil, err
		}

		// Ensure that the original config is not modified.
		conf = func() *Config { c := *conf; return &c }()
		conf.Transport = tr
	}

	g, err := newGossiper(conf)
	if err != nil {
		conf.Transport.Close()
		return nil, err
	}

	return g, nil
}

func newGossiper(conf *Config) (*Gossiper, error) {
	seen, err := lru.New(conf.SeenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create seen message cache: %w", err)
	}

	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	delegate := conf.Delegate
	if delegate == nil {
		delegate = &NoopDelegate{}
	}

	return &Gossiper{
		self:         conf.Self,
		heartbeat:    conf.Heartbeat,
		runID:        rand.Uint32(),
		gossipFactor: conf.GossipFactor,
		transport:    conf.Transport,
		delegate:     delegate,
		logger:       logger,
		messageTTL:   conf.MessageTTL,
		seen:         seen,
		peers:        make(peerMap),
	}, nil
}

func (g *Gossiper) getPeers() peerMap {
	g.peersMut.RLock()
	peers := make(peerMap, len(g.peers))
	generic.MapCopy(g.peers, peers)
	g.peersMut.RUnlock()

	return peers
}

func (g *Gossiper) newMessage(payload []byte) *proto.GossipMessage {
	return &proto.GossipMessage{
		From:      string(g.self),
		RunID:     g.runID,
		SeqNumber: atomic.AddUint64(&g.lastSeqNum, 1),
		CloudHash: g.heartbeat.CloudHash,
		Watchdog:  g.heartbeat.Watchdog,
		Client:    g.heartbeat.Client,
		Payload:   payload,
	}
}

func (g *Gossiper) processMessage(msg *proto.GossipMessage) {
	from := membership.NodeID(msg.From)
	if from == g.self {
		return // our own message relayed back
	}

	l := log.WithSuffix(g.logger, "from", msg.From, "seq_num", msg.SeqNumber)

	key := messageKey{from: msg.From, runID: msg.RunID, seq: msg.SeqNumber}
	if seen, _ := g.seen.ContainsOrAdd(key, struct{}{}); seen {
		telemetry.GossipMessages.WithLabelValues("duplicate").Inc()
		return
	}

	telemetry.GossipMessages.WithLabelValues("received").Inc()

	if msg.TTL > 0 && !msg.Direct {
		level.Debug(l).Log("msg", "scheduled for rebroadcast", "ttl", msg.TTL)

		relayed := *msg
		relayed.TTL--
		relayed.SeenBy = append(append([]string(nil), msg.SeenBy...), string(g.self))

		g.wg.Add(1)

		go func() {
			defer g.wg.Done()

			if err := g.gossip(&relayed); err != nil {
				level.Warn(l).Log("msg", "rebroadcast failed", "err", err)
				return
			}

			telemetry.GossipMessages.WithLabelValues("relayed").Inc()
		}()
	}

	hb := heartbeat.Snapshot{
		CloudHash: msg.CloudHash,
		Watchdog:  msg.Watchdog,
		Client:    msg.Client,
	}

	if len(msg.Payload) == 0 {
		g.delegate.Receive(from, hb)
		return
	}

	if err := g.delegate.Deliver(from, hb, msg.Payload); err != nil {
		level.Error(l).Log("msg", "message delivery failed", "err", err)
	}
}

// gossip sends the message to up to gossipFactor peers that have not seen it yet.
func (g *Gossiper) gossip(msg *proto.GossipMessage) error {
	seenBy := make(map[membership.NodeID]bool, len(msg.SeenBy)+1)
	seenBy[membership.NodeID(msg.From)] = true

	for _, id := range msg.SeenBy {
		seenBy[membership.NodeID(id)] = true
	}

	knownPeers := g.getPeers()

	peerIDs := generic.MapKeys(knownPeers)

	rand.Shuffle(len(peerIDs), func(i, j int) {
		peerIDs[i], peerIDs[j] = peerIDs[j], peerIDs[i]
	})

	var sentCount int

	errs := multierror.New[membership.NodeID]()

	for _, id := range peerIDs {
		if g.gossipFactor > 0 && sentCount >= g.gossipFactor {
			break
		}

		if seenBy[id] {
			continue
		}

		sentCount++

		if err := g.transport.WriteTo(msg, knownPeers[id]); err != nil {
			level.Debug(g.logger).Log("msg", "failed to send a message", "to", id, "err", err)
			errs.Add(id, err)
		}
	}

	// Error only if all attempts have failed.
	if sentCount > 0 && errs.Len() == sentCount {
		return errs
	}

	return nil
}

func (g *Gossiper) initialTTL() uint32 {
	if g.messageTTL > 0 {
		return g.messageTTL
	}

	// Every node sends to all peers it knows. A single relay is enough for a
	// message from a node that only knows its contact node.
	if g.gossipFactor <= 0 {
		return 1
	}

	g.peersMut.RLock()
	peerCount := len(g.peers)
	g.peersMut.RUnlock()

	return autoTTL(peerCount, g.gossipFactor)
}

// StartListener starts the background listener process.
func (g *Gossiper) StartListener() {
	g.wg.Add(1)

	go func() {
		g.listenMessages()
		g.wg.Done()
	}()
}

func (g *Gossiper) listenMessages() {
	level.Debug(g.logger).Log("msg", "gossip listener started", "self", g.self)

	for {
		msg := &proto.GossipMessage{}

		if err := g.transport.ReadFrom(msg); err != nil {
			if errors.Is(err, transport.ErrClosed) {
				break
			}

			level.Error(g.logger).Log("msg", "error while reading", "err", err)

			continue
		}

		level.Debug(g.logger).Log(
			"msg", "received gossip message",
			"from", msg.From,
			"seq", msg.SeqNumber,
			"ttl", msg.TTL,
			"direct", msg.Direct,
		)

		g.processMessage(msg)
	}
}

// Shutdown stops the gossiper and waits until the last received message
// is processed. Once stopped, it cannot be started again.
func (g *Gossiper) Shutdown() error {
	if err := g.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}

	g.wg.Wait()

	return nil
}

// Register adds new peer for broadcasting messages to. The local node is never registered.
func (g *Gossiper) Register(id membership.NodeID) (bool, error) {
	if id == g.self {
		return false, nil
	}

	addr, err := id.AddrPort()
	if err != nil {
		return false, fmt.Errorf("failed to parse peer address: %w", err)
	}

	g.peersMut.Lock()
	defer g.peersMut.Unlock()

	if _, ok := g.peers[id]; ok {
		return false, nil
	}

	g.peers[id] = addr
	telemetry.KnownPeers.Set(float64(len(g.peers)))

	level.Debug(g.logger).Log("msg", "new peer registered", "id", id)

	return true, nil
}

// Unregister removes peer from the list of known peers.
func (g *Gossiper) Unregister(id membership.NodeID) bool {
	g.peersMut.Lock()
	defer g.peersMut.Unlock()

	if _, ok := g.peers[id]; !ok {
		return false
	}

	delete(g.peers, id)
	telemetry.KnownPeers.Set(float64(len(g.peers)))

	level.Debug(g.logger).Log("msg", "peer unregistered", "id", id)

	return true
}

// Peers returns the registered peers sorted by address.
func (g *Gossiper) Peers() []membership.NodeID {
	ids := generic.MapKeys(g.getPeers())
	slices.Sort(ids)

	return ids
}

// PeerAdded registers a peer that appeared in the flatfile.
func (g *Gossiper) PeerAdded(id membership.NodeID) {
	if _, err := g.Register(id); err != nil {
		level.Warn(g.logger).Log("msg", "failed to register peer", "id", id, "err", err)
	}
}

// PeerRemoved unregisters a peer that was removed from the flatfile.
func (g *Gossiper) PeerRemoved(id membership.NodeID) {
	g.Unregister(id)
}

// Broadcast sends the given data to all nodes through the gossip network.
// For UDP, the size of the payload should not exceed the MTU size (which is
// typically 1500 bytes in most networks). The payload is not retained after
// the call returns.
func (g *Gossiper) Broadcast(payload []byte) error {
	msg := g.newMessage(payload)
	msg.TTL = g.initialTTL()

	if err := g.gossip(msg); err != nil {
		return err
	}

	telemetry.GossipMessages.WithLabelValues("sent").Inc()

	return nil
}

// SendTo sends the payload to a single node, which does not need to be a
// registered peer. Direct messages are never relayed.
func (g *Gossiper) SendTo(id membership.NodeID, payload []byte) error {
	addr, err := id.AddrPort()
	if err != nil {
		return err
	}

	msg := g.newMessage(payload)
	msg.Direct = true

	if err := g.transport.WriteTo(msg, addr); err != nil {
		return err
	}

	telemetry.GossipMessages.WithLabelValues("sent").Inc()

	return nil
}

// Announce sends the heartbeat of the local node to every registered peer.
func (g *Gossiper) Announce() error {
	return g.gossip(g.newMessage(nil))
}

// autoTTL returns optimal TTL for a message to reach all nodes.
func autoTTL(nPeers, gossipFactor int) uint32 {
	if nPeers < 2 {
		return 1
	}

	if gossipFactor < 2 {
		return uint32(nPeers)
	}

	return uint32(math.Log(float64(nPeers))/math.Log(float64(gossipFactor))) + 1
}
