package gossip

import (
	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/membership"
)

// Delegate is an interface the client should implement to receive gossip
// messages. The methods are called from a single goroutine and exactly one of
// them is called once for each message, relayed copies included.
type Delegate interface {
	// Receive is called for pure heartbeats, the messages without payload.
	Receive(from membership.NodeID, hb heartbeat.Snapshot)

	// Deliver is called for messages carrying a payload, along with the
	// heartbeat of the node that originated it. There is no ordering
	// guarantee between messages.
	Deliver(from membership.NodeID, hb heartbeat.Snapshot, payload []byte) error
}

// NoopDelegate is an event delegate that does nothing.
type NoopDelegate struct{}

func (d *NoopDelegate) Receive(membership.NodeID, heartbeat.Snapshot) {}

func (d *NoopDelegate) Deliver(membership.NodeID, heartbeat.Snapshot, []byte) error { return nil }

// Ensure NoopDelegate satisfies the Delegate interface.
var _ Delegate = &NoopDelegate{}
