package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/clientcast/clientevent"
	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/internal/telemetry"
	"github.com/maxpoletaev/clientcast/membership"
)

var ErrNotBound = errors.New("agent is not bound to a transport")

type Config struct {
	// Self is the advertised address of the local node.
	Self membership.NodeID

	// CloudHash is the fingerprint of the cluster name.
	CloudHash uint32

	// IsClient is set when the local node is a client, which takes part in the
	// membership but does not track other clients.
	IsClient bool

	// FlatfileEnabled is set when the peers are listed statically.
	FlatfileEnabled bool

	// HeartbeatInterval is how often the local node announces itself.
	HeartbeatInterval time.Duration

	// ClientTimeout is how long a client may stay silent before the full
	// nodes consider it gone.
	ClientTimeout time.Duration

	Logger log.Logger
}

func DefaultConfig() *Config {
	return &Config{
		FlatfileEnabled:   true,
		HeartbeatInterval: time.Second,
		ClientTimeout:     10 * time.Second,
		Logger:            log.NewNopLogger(),
	}
}

// Agent runs the client membership protocol on a single node. It receives gossip
// messages as a gossip.Delegate, applies client events through the handler and
// originates events when clients attach, leave or time out.
type Agent struct {
	self              membership.NodeID
	cloudHash         uint32
	isClient          bool
	flatfile          bool
	heartbeatInterval time.Duration
	clientTimeout     time.Duration
	store             *membership.Store
	heartbeats        *heartbeat.Table
	handler           *clientevent.Handler
	shutdowner        Shutdowner
	logger            log.Logger

	mut       sync.RWMutex
	transport Transport
	sender    *clientevent.Sender
}

func New(conf *Config, store *membership.Store, heartbeats *heartbeat.Table, shutdowner Shutdowner) *Agent {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	handler := clientevent.NewHandler(clientevent.HandlerConfig{
		Self:            conf.Self,
		CloudHash:       conf.CloudHash,
		IsClient:        conf.IsClient,
		FlatfileEnabled: conf.FlatfileEnabled,
		Store:           store,
		Heartbeats:      heartbeats,
		Shutdowner:      shutdowner,
		Logger:          logger,
	})

	return &Agent{
		self:              conf.Self,
		cloudHash:         conf.CloudHash,
		isClient:          conf.IsClient,
		flatfile:          conf.FlatfileEnabled,
		heartbeatInterval: conf.HeartbeatInterval,
		clientTimeout:     conf.ClientTimeout,
		store:             store,
		heartbeats:        heartbeats,
		handler:           handler,
		shutdowner:        shutdowner,
		logger:            logger,
	}
}

// Bind attaches the transport events are sent through. Messages received
// before the agent is bound are applied, but no events are originated.
func (a *Agent) Bind(t Transport) {
	a.mut.Lock()
	defer a.mut.Unlock()

	a.transport = t
	a.sender = clientevent.NewSender(a.store, t, a.logger)
}

func (a *Agent) bound() (Transport, *clientevent.Sender) {
	a.mut.RLock()
	defer a.mut.RUnlock()

	return a.transport, a.sender
}

// Receive records the heartbeat of the node. It is called for announcements and,
// through Deliver, for every event. A full node that hears from a
// client it does not know yet is the node the client first contacted: it
// adds the client to the flatfile, tells the cluster and confirms the
// connection with the full flatfile.
func (a *Agent) Receive(from membership.NodeID, hb heartbeat.Snapshot) {
	if hb.CloudHash != a.cloudHash || from == a.self {
		return
	}

	if a.heartbeats.Update(from, hb) {
		level.Debug(a.logger).Log("msg", "new node seen", "id", from, "client", hb.Client)
	}

	if a.isClient || !a.flatfile || !hb.Client || a.store.IsClient(from) {
		return
	}

	level.Info(a.logger).Log("msg", "new client connected", "client", from, "watchdog", hb.Watchdog)

	a.store.AddPeer(from)
	a.store.AddClient(from)

	_, sender := a.bound()
	if sender == nil {
		return
	}

	if err := sender.Disseminate(clientevent.KindConnect, from); err != nil {
		level.Warn(a.logger).Log("msg", "failed to disseminate client connect", "client", from, "err", err)
	}

	if err := sender.Confirm(from); err != nil {
		level.Warn(a.logger).Log("msg", "failed to confirm client connect", "client", from, "err", err)
	}
}

// Deliver decodes a client event and applies it to the local state. The
// heartbeat carried with the event is recorded as by Receive, unless the event
// is the sender's own disconnect: a departing client is never attached.
func (a *Agent) Deliver(from membership.NodeID, hb heartbeat.Snapshot, payload []byte) error {
	e, err := clientevent.Unmarshal(payload)
	if err != nil {
		a.Receive(from, hb)
		return fmt.Errorf("failed to decode client event: %w", err)
	}

	if e.Kind != clientevent.KindDisconnect || e.Subject != from {
		a.Receive(from, hb)
	}

	if err := a.handler.Handle(clientevent.Origin{ID: from, Heartbeat: hb}, e); err != nil {
		return err
	}

	// The subject is gone, the sweep must not report it once more.
	if e.Kind == clientevent.KindDisconnect && hb.CloudHash == a.cloudHash {
		a.heartbeats.Forget(e.Subject)
	}

	return nil
}

// RunLoop announces the local node and, on full nodes, expires silent clients
// until the context is cancelled.
func (a *Agent) RunLoop(ctx context.Context) {
	ticker := time.NewTicker(a.heartbeatInterval)
	defer ticker.Stop()

	for {
		a.tick()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Agent) tick() {
	transport, _ := a.bound()
	if transport == nil {
		return
	}

	if err := transport.Announce(); err != nil {
		level.Debug(a.logger).Log("msg", "failed to announce heartbeat", "err", err)
	}

	if !a.isClient {
		a.expireClients()
	}
}

func (a *Agent) expireClients() {
	_, sender := a.bound()

	for _, id := range a.heartbeats.ExpiredClients(a.clientTimeout) {
		snap, _ := a.heartbeats.Get(id)
		a.heartbeats.Forget(id)

		level.Info(a.logger).Log("msg", "client heartbeat timed out", "client", id, "last_seen", snap.Seen)

		if sender != nil {
			if err := sender.Disseminate(clientevent.KindDisconnect, id); err != nil {
				level.Warn(a.logger).Log("msg", "failed to disseminate client disconnect", "client", id, "err", err)
			}
		}

		if a.flatfile {
			a.store.RemovePeer(id)
			a.store.RemoveClient(id)
		}

		if snap.Watchdog {
			level.Warn(a.logger).Log("msg", "stopping cluster because the watchdog client has timed out", "client", id)
			telemetry.WatchdogShutdowns.Inc()
			a.shutdowner.Shutdown(0)
		}
	}
}

// Leave tells the cluster that the local client is going away. It does nothing
// on full nodes.
func (a *Agent) Leave() error {
	if !a.isClient {
		return nil
	}

	_, sender := a.bound()
	if sender == nil {
		return ErrNotBound
	}

	level.Info(a.logger).Log("msg", "disconnecting from the cluster")

	return sender.Disseminate(clientevent.KindDisconnect, a.self)
}
