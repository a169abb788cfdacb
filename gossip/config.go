package gossip

import (
	"github.com/go-kit/log"

	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/membership"
)

type Config struct {
	// Self is the advertised address of the current node. It is attached to
	// every message and must be reachable by other nodes.
	Self membership.NodeID

	// BindAddr is where gossiper will be expecting messages to appear. If
	// empty, the address of Self is used.
	BindAddr string

	// Heartbeat is attached to every message originated by this node. The
	// Seen field is ignored.
	Heartbeat heartbeat.Snapshot

	// GossipFactor is the number of peers a message is sent to by every node.
	// Zero means all known peers, which is the natural choice for a flatfile
	// cluster where every node knows every other node.
	GossipFactor int

	// MessageTTL is the number of times a broadcast message is relayed from
	// one node to another. If not defined, the TTL is derived from the number
	// of peers and the gossip factor.
	MessageTTL uint32

	// SeenCacheSize is the number of recent messages remembered to drop
	// relayed duplicates.
	SeenCacheSize int

	// Delegate receives the messages. See Delegate interface documentation for more detail.
	Delegate Delegate

	// Transport is the underlying transport protocol used to deliver peer-to-peer
	// messages from one node to another. If not defined, UDP is used.
	Transport Transport

	// Logger is go-kit logger used to record debug messages and non-critical
	// errors while protocol execution. If not provided, it will be totally silent.
	Logger log.Logger
}

// DefaultConfig creates a Config with reasonable default values
// that will not crash the program straight away.
func DefaultConfig() *Config {
	return &Config{
		GossipFactor:  0,
		SeenCacheSize: 4096,
		Logger:        log.NewNopLogger(),
		Delegate:      &NoopDelegate{},
	}
}
