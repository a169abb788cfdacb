package clientevent

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/internal/telemetry"
	"github.com/maxpoletaev/clientcast/membership"
)

// ErrUnsupportedKind is returned for events of a kind this node does not know.
// It means that the peers disagree on the wire format and must not be ignored.
var ErrUnsupportedKind = errors.New("unsupported client event")

// Origin is the node that originated a received event, along with the
// heartbeat it attached to the message.
type Origin struct {
	ID        membership.NodeID
	Heartbeat heartbeat.Snapshot
}

type HandlerConfig struct {
	// Self is the address of the local node.
	Self membership.NodeID

	// CloudHash is the fingerprint of the local cluster. Events originated in
	// other clusters are dropped.
	CloudHash uint32

	// IsClient is set when the local node is a client.
	IsClient bool

	// FlatfileEnabled is set when the membership is configured statically. In
	// dynamic discovery mode only the watchdog disconnect has any effect.
	FlatfileEnabled bool

	Store      Store
	Heartbeats Heartbeats
	Shutdowner Shutdowner
	Logger     log.Logger
}

// Handler applies received client events to the local membership state.
type Handler struct {
	self       membership.NodeID
	cloudHash  uint32
	isClient   bool
	flatfile   bool
	store      Store
	heartbeats Heartbeats
	shutdowner Shutdowner
	logger     log.Logger
}

func NewHandler(conf HandlerConfig) *Handler {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Handler{
		self:       conf.Self,
		cloudHash:  conf.CloudHash,
		isClient:   conf.IsClient,
		flatfile:   conf.FlatfileEnabled,
		store:      conf.Store,
		heartbeats: conf.Heartbeats,
		shutdowner: conf.Shutdowner,
		logger:     logger,
	}
}

// Handle processes a single event. Events from another cluster or from the
// local node itself are dropped silently, as are events that do not apply to
// the role of the local node. An error is only returned for unknown event kinds.
func (h *Handler) Handle(from Origin, e Event) error {
	if from.Heartbeat.CloudHash != h.cloudHash {
		observe(e.Kind, telemetry.OutcomeForeignCloud)
		return nil
	}

	if from.ID == h.self {
		observe(e.Kind, telemetry.OutcomeLoopback)
		return nil
	}

	var applied bool

	switch e.Kind {
	case KindConnect:
		applied = h.handleConnect(from, e)
	case KindDisconnect:
		applied = h.handleDisconnect(from, e)
	case KindConfirmConnect:
		applied = h.handleConfirmConnect(from, e)
	default:
		observe(e.Kind, telemetry.OutcomeUnsupported)
		return fmt.Errorf("%w: %s from %s", ErrUnsupportedKind, e.Kind, from.ID)
	}

	if applied {
		observe(e.Kind, telemetry.OutcomeApplied)
	} else {
		observe(e.Kind, telemetry.OutcomeIgnored)
	}

	return nil
}

func (h *Handler) handleConnect(from Origin, e Event) bool {
	// Clients never track other clients, and in multicast mode the peers
	// find each other without our help.
	if h.isClient || !h.flatfile {
		return false
	}

	level.Info(h.logger).Log("msg", "client reported via broadcast message", "client", e.Subject, "from", from.ID)

	h.store.AddPeer(e.Subject)
	h.store.AddClient(e.Subject)

	return true
}

func (h *Handler) handleDisconnect(from Origin, e Event) bool {
	var applied bool

	if !h.isClient && h.flatfile {
		level.Info(h.logger).Log("msg", "client has been disconnected", "client", e.Subject, "from", from.ID)

		h.store.RemovePeer(e.Subject)
		h.store.RemoveClient(e.Subject)

		applied = true
	}

	// Departure of the watchdog is the signal to stop the whole cluster,
	// regardless of the role and discovery mode.
	if h.isWatchdog(from, e.Subject) {
		level.Warn(h.logger).Log(
			"msg", "stopping cluster because the watchdog client is disconnecting",
			"client", e.Subject,
			"from", from.ID,
		)

		telemetry.WatchdogShutdowns.Inc()
		h.shutdowner.Shutdown(0)

		applied = true
	}

	return applied
}

func (h *Handler) handleConfirmConnect(from Origin, e Event) bool {
	if !h.isClient || !h.flatfile {
		return false
	}

	level.Info(h.logger).Log(
		"msg", "got confirmation from the node the client first contacted",
		"from", from.ID,
		"peers", len(e.Peers),
	)

	for _, peer := range e.Peers {
		h.store.AddPeer(peer)
	}

	return true
}

// isWatchdog checks the watchdog flag of the subject. The heartbeat attached to
// the message is the freshest one when the subject announces its own departure.
func (h *Handler) isWatchdog(from Origin, subject membership.NodeID) bool {
	if subject == from.ID {
		return from.Heartbeat.Watchdog
	}

	snap, ok := h.heartbeats.Get(subject)

	return ok && snap.Watchdog
}

func observe(kind Kind, outcome string) {
	telemetry.EventsReceived.WithLabelValues(kind.String(), outcome).Inc()
}
