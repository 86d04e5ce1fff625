package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry metrics
var (
	// RelayActiveTenants tracks the number of tenants with at least one connected viewer
	RelayActiveTenants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_active_tenants",
			Help: "Number of tenants with at least one connected viewer",
		},
	)

	// RelayConnectedClients tracks the total number of connected viewer connections
	RelayConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connected_clients_total",
			Help: "Total number of connected viewer WebSocket clients across all tenants",
		},
	)

	// RelayClientsPruned tracks clients removed because a send to them failed
	RelayClientsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_clients_pruned_total",
			Help: "Total number of viewer clients pruned after a failed send",
		},
	)
)

// Ingestion and dispatch metrics
var (
	// EventsIngestedTotal tracks accepted webhook events by event type
	EventsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_ingested_total",
			Help: "Total webhook events accepted for broadcast, by event type",
		},
		[]string{"type"},
	)

	// DeliveriesTotal tracks per-connection delivery attempts by outcome
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_deliveries_total",
			Help: "Per-connection event delivery attempts by status (ok/failed)",
		},
		[]string{"status"},
	)
)

// WebSocket metrics
var (
	// WebSocketMessageSendDuration tracks time to write one message to a viewer
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "Time to write one broadcast message to a viewer connection",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// WebSocketPingFailures tracks failed keep-alive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total keep-alive ping writes that failed",
		},
	)
)
