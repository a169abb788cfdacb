package clientevent

import (
	"fmt"

	"github.com/maxpoletaev/clientcast/membership"
)

// Kind is the type of client membership change.
type Kind uint32

const (
	// KindConnect announces a client attaching to the cluster.
	KindConnect Kind = iota + 1

	// KindConfirmConnect is sent back to a newly attached client by the node
	// it first contacted, together with the full flatfile of that node.
	KindConfirmConnect

	// KindDisconnect announces a client leaving the cluster. If the client is
	// the watchdog, the whole cluster is stopped.
	KindDisconnect
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindConfirmConnect:
		return "confirm_connect"
	case KindDisconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(k))
	}
}

// Event describes a single client membership change. Peers is only set for
// KindConfirmConnect. Events are values and must not be modified once created.
type Event struct {
	Kind    Kind
	Subject membership.NodeID
	Peers   []membership.NodeID
}

func NewConnect(subject membership.NodeID) Event {
	return Event{Kind: KindConnect, Subject: subject}
}

func NewDisconnect(subject membership.NodeID) Event {
	return Event{Kind: KindDisconnect, Subject: subject}
}

// NewConfirmConnect creates a confirmation for the subject carrying a copy of the
// given flatfile snapshot. A nil snapshot is stored as an empty one.
func NewConfirmConnect(subject membership.NodeID, peers []membership.NodeID) Event {
	snapshot := make([]membership.NodeID, len(peers))
	copy(snapshot, peers)

	return Event{
		Kind:    KindConfirmConnect,
		Subject: subject,
		Peers:   snapshot,
	}
}

// Snapshot returns a copy of the flatfile carried by the event.
func (e Event) Snapshot() []membership.NodeID {
	if e.Peers == nil {
		return nil
	}

	peers := make([]membership.NodeID, len(e.Peers))
	copy(peers, e.Peers)

	return peers
}
