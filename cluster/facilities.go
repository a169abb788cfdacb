package cluster

import (
	"github.com/maxpoletaev/clientcast/membership"
)

//go:generate mockgen -source=facilities.go -destination=facilities_mock_test.go -package=cluster

// Transport is the gossip layer the agent sends through.
type Transport interface {
	Broadcast(payload []byte) error
	SendTo(id membership.NodeID, payload []byte) error

	// Announce sends the heartbeat of the local node to every peer.
	Announce() error
}

type Shutdowner interface {
	Shutdown(code int)
}
