package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/maxpoletaev/clientcast/cluster"
	"github.com/maxpoletaev/clientcast/discovery"
	"github.com/maxpoletaev/clientcast/gossip"
	"github.com/maxpoletaev/clientcast/heartbeat"
	"github.com/maxpoletaev/clientcast/internal/telemetry"
	"github.com/maxpoletaev/clientcast/membership"
)

type shutdownFunc func(ctx context.Context) error

var noopShutdown = func(ctx context.Context) error { return nil }

// terminator stops the process on request of the protocol. Only the first
// exit code is kept.
type terminator struct {
	once   sync.Once
	code   atomic.Int32
	cancel context.CancelFunc
}

func (t *terminator) Shutdown(code int) {
	t.once.Do(func() {
		t.code.Store(int32(code))
		t.cancel()
	})
}

func (t *terminator) ExitCode() int {
	return int(t.code.Load())
}

func setupLogger() (kitlog.Logger, shutdownFunc) {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	if !opts.Verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger, noopShutdown
}

func setupStore(self membership.NodeID, logger kitlog.Logger) *membership.Store {
	store := membership.NewStore()

	if opts.Cluster.Flatfile != "" {
		peers, err := membership.LoadFlatfile(opts.Cluster.Flatfile)
		if err != nil {
			panic(fmt.Sprintf("failed to load flatfile: %v", err))
		}

		for _, id := range peers {
			store.AddPeer(id)
		}

		level.Info(logger).Log("msg", "flatfile loaded", "path", opts.Cluster.Flatfile, "peers", len(peers))
	}

	// A full node is always a part of the flatfile it confirms to the clients.
	if !opts.Node.Client {
		store.AddPeer(self)
	}

	return store
}

func setupAgent(
	self membership.NodeID,
	store *membership.Store,
	shutdowner cluster.Shutdowner,
	logger kitlog.Logger,
) (*cluster.Agent, shutdownFunc) {
	conf := cluster.DefaultConfig()
	conf.Self = self
	conf.CloudHash = heartbeat.CloudHash(opts.Cluster.Name)
	conf.IsClient = opts.Node.Client
	conf.FlatfileEnabled = opts.Cluster.Flatfile != ""
	conf.HeartbeatInterval = time.Millisecond * time.Duration(opts.Cluster.HeartbeatInterval)
	conf.ClientTimeout = time.Millisecond * time.Duration(opts.Cluster.ClientTimeout)
	conf.Logger = logger

	agent := cluster.New(conf, store, heartbeat.NewTable(), shutdowner)

	shutdown := func(ctx context.Context) error {
		if err := agent.Leave(); err != nil {
			return fmt.Errorf("failed to leave cluster: %w", err)
		}

		return nil
	}

	return agent, shutdown
}

func setupGossip(self membership.NodeID, delegate gossip.Delegate, logger kitlog.Logger) (*gossip.Gossiper, shutdownFunc) {
	conf := gossip.DefaultConfig()
	conf.Self = self
	conf.BindAddr = opts.Node.BindAddr
	conf.GossipFactor = opts.Cluster.GossipFactor
	conf.Delegate = delegate
	conf.Logger = logger
	conf.Heartbeat = heartbeat.Snapshot{
		CloudHash: heartbeat.CloudHash(opts.Cluster.Name),
		Watchdog:  opts.Node.Watchdog,
		Client:    opts.Node.Client,
	}

	gossiper, err := gossip.New(conf)
	if err != nil {
		panic(fmt.Sprintf("failed to create gossiper: %v", err))
	}

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "stopping gossip listener")

		if err := gossiper.Shutdown(); err != nil {
			return fmt.Errorf("failed to stop gossiper: %w", err)
		}

		return nil
	}

	return gossiper, shutdown
}

func setupDiscovery(self membership.NodeID, registrar discovery.Registrar, logger kitlog.Logger) (*discovery.Discovery, shutdownFunc) {
	disco, err := discovery.Start(discovery.Config{
		BindAddr:   opts.Discovery.BindAddr,
		GossipAddr: self,
		Seeds:      parseAddrs(opts.Discovery.JoinAddrs),
		Registrar:  registrar,
		Logger:     logger,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to start discovery: %v", err))
	}

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "leaving discovery cluster")

		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}

		return disco.Leave(timeout)
	}

	return disco, shutdown
}

func setupMetricsServer(g *errgroup.Group, logger kitlog.Logger) shutdownFunc {
	if opts.Metrics.BindAddr == "" {
		return noopShutdown
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.MetricsHandler())

	server := &http.Server{
		Addr:              opts.Metrics.BindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		level.Info(logger).Log("msg", "serving metrics", "addr", opts.Metrics.BindAddr)

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}

		return nil
	})

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "shutting down metrics server")
		return server.Shutdown(ctx)
	}

	return shutdown
}
