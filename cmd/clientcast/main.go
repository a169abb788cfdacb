package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log/level"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/maxpoletaev/clientcast/membership"
)

const shutdownTimeout = 10 * time.Second

func main() {
	p := flags.NewParser(&opts, flags.Default)

	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			fmt.Println("cli error:", err)
		}

		os.Exit(2)
	}

	if err := validateOpts(); err != nil {
		fmt.Println("cli error:", err)
		os.Exit(2)
	}

	appctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appctx, cancel := context.WithCancel(appctx)
	defer cancel()

	term := &terminator{cancel: cancel}
	g, gctx := errgroup.WithContext(appctx)

	logger, closeLogger := setupLogger()

	self, err := membership.ParseNodeID(opts.Node.Addr)
	if err != nil {
		level.Error(logger).Log("msg", "invalid node address", "addr", opts.Node.Addr, "err", err)
		os.Exit(2)
	}

	// Initialize all components. The agent must be bound to the gossiper
	// before the first message is received.
	store := setupStore(self, logger)
	agent, leaveCluster := setupAgent(self, store, term, logger)
	gossiper, closeGossip := setupGossip(self, agent, logger)

	agent.Bind(gossiper)
	store.Observe(gossiper)
	gossiper.StartListener()

	closeDiscovery := noopShutdown
	if opts.Cluster.Flatfile == "" {
		_, closeDiscovery = setupDiscovery(self, gossiper, logger)
	}

	closeMetrics := setupMetricsServer(g, logger)

	// Components must be shut down in a particular order.
	shutdownOrder := []shutdownFunc{
		leaveCluster,
		closeDiscovery,
		closeMetrics,
		closeGossip,
		closeLogger,
	}

	g.Go(func() error {
		agent.RunLoop(gctx)
		return nil
	})

	level.Info(logger).Log(
		"msg", "node started",
		"addr", self,
		"cluster", opts.Cluster.Name,
		"client", opts.Node.Client,
		"flatfile", opts.Cluster.Flatfile != "",
	)

	// Block until we receive a signal or the cluster is stopped.
	<-gctx.Done()
	level.Info(logger).Log("msg", "shutting down")

	for _, f := range shutdownOrder {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		if err := f(ctx); err != nil {
			level.Error(logger).Log("msg", "failed to shutdown component", "err", err)
		}

		cancel()
	}

	// Wait for all components to finish background tasks.
	if err := g.Wait(); err != nil {
		level.Error(logger).Log("msg", "node failed", "err", err)
		os.Exit(1)
	}

	os.Exit(term.ExitCode())
}
