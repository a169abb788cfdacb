package heartbeat

import (
	"time"

	"github.com/twmb/murmur3"
)

// Snapshot is the latest liveness information received from a node. Every
// gossip message carries the heartbeat of the node that originated it.
type Snapshot struct {
	// CloudHash is the fingerprint of the logical cluster the node belongs to.
	CloudHash uint32

	// Watchdog is set on the client whose departure stops the whole cluster.
	Watchdog bool

	// Client is set on lightweight nodes that do not take part in computation.
	Client bool

	// Seen is the local time the snapshot was received at.
	Seen time.Time
}

// CloudHash returns the fingerprint of the cluster with the given name. Nodes
// sharing the network but configured with different names ignore each other.
func CloudHash(name string) uint32 {
	return murmur3.Sum32([]byte(name))
}
