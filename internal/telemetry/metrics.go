package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientcast",
			Name:      "events_received_total",
			Help:      "Client events received, by kind and handling outcome.",
		},
		[]string{"kind", "outcome"},
	)

	EventsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientcast",
			Name:      "events_sent_total",
			Help:      "Client events handed to the transport, by kind.",
		},
		[]string{"kind"},
	)

	WatchdogShutdowns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clientcast",
			Name:      "watchdog_shutdowns_total",
			Help:      "Cluster shutdowns triggered by the watchdog client leaving.",
		},
	)

	GossipMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientcast",
			Name:      "gossip_messages_total",
			Help:      "Gossip messages by direction (sent, received, relayed, duplicate).",
		},
		[]string{"direction"},
	)

	KnownPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clientcast",
			Name:      "known_peers",
			Help:      "Number of peers the gossiper currently sends to.",
		},
	)
)

// Outcomes of handling a received event.
const (
	OutcomeApplied      = "applied"
	OutcomeIgnored      = "ignored"
	OutcomeForeignCloud = "foreign_cloud"
	OutcomeLoopback     = "loopback"
	OutcomeUnsupported  = "unsupported"
)

func init() {
	Registry.MustRegister(
		EventsReceived,
		EventsSent,
		WatchdogShutdowns,
		GossipMessages,
		KnownPeers,
		collectors.NewGoCollector(),
	)
}

// MetricsHandler exposes the registry. Mount it with mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
