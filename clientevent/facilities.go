package clientevent

import (
	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/membership"
)

//go:generate mockgen -source=facilities.go -destination=facilities_mock_test.go -package=clientevent

// Store is the local flatfile and client registry. All methods are idempotent.
type Store interface {
	AddPeer(id membership.NodeID) bool
	RemovePeer(id membership.NodeID) bool
	AddClient(id membership.NodeID) bool
	RemoveClient(id membership.NodeID) bool
	Peers() []membership.NodeID
}

// Heartbeats gives access to the last known heartbeat of a node.
type Heartbeats interface {
	Get(id membership.NodeID) (heartbeat.Snapshot, bool)
}

// Shutdowner stops the local process. It is expected to be safe to call
// more than once and from several goroutines.
type Shutdowner interface {
	Shutdown(code int)
}

// Transport delivers encoded events. Both methods return as soon as the
// payload is written; the payload must not be retained after the call.
type Transport interface {
	// Broadcast delivers the payload to the current peer view.
	Broadcast(payload []byte) error

	// SendTo delivers the payload to a single node.
	SendTo(id membership.NodeID, payload []byte) error
}
