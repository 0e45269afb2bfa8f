package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Feed metrics
	FeedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_feed_fetches_total",
			Help: "Total number of feed fetch attempts by feed and outcome",
		},
		[]string{"feed", "outcome"},
	)

	FeedFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "baekilha_feed_fetch_duration_seconds",
			Help:    "Feed fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	FeedRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_feed_retries_total",
			Help: "Total number of feed fetch retries by feed",
		},
		[]string{"feed"},
	)

	// Fusion metrics
	EntitiesFused = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "baekilha_entities_fused",
			Help: "Number of fused entities after the last load, by kind",
		},
		[]string{"kind"},
	)

	DegradedLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_degraded_loads_total",
			Help: "Total number of loads that fell back to the default dataset",
		},
		[]string{"kind"},
	)

	// Channel metrics
	MessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_channel_messages_published_total",
			Help: "Total number of messages published by type and transport",
		},
		[]string{"type", "transport"},
	)

	MessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_channel_messages_received_total",
			Help: "Total number of messages received by type and transport",
		},
		[]string{"type", "transport"},
	)

	MessagesDeduped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "baekilha_channel_messages_deduped_total",
			Help: "Total number of duplicate messages suppressed",
		},
	)

	MessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_channel_messages_dropped_total",
			Help: "Total number of messages dropped by reason (malformed, buffer_full)",
		},
		[]string{"reason"},
	)

	TransportErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_channel_transport_errors_total",
			Help: "Total number of transport errors by transport",
		},
		[]string{"transport"},
	)

	// Snapshot metrics
	SnapshotTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baekilha_snapshot_transitions_total",
			Help: "Total number of snapshot mode transitions by target mode",
		},
		[]string{"mode"},
	)

	// Reconciliation metrics
	ReconcileCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "baekilha_reconcile_cycles_total",
			Help: "Total number of reconciliation cycles run",
		},
	)

	ReconcileCorrections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "baekilha_reconcile_corrections_total",
			Help: "Total number of missed updates recovered by reconciliation",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(FeedFetchesTotal)
	prometheus.MustRegister(FeedFetchDuration)
	prometheus.MustRegister(FeedRetriesTotal)
	prometheus.MustRegister(EntitiesFused)
	prometheus.MustRegister(DegradedLoadsTotal)
	prometheus.MustRegister(MessagesPublished)
	prometheus.MustRegister(MessagesReceived)
	prometheus.MustRegister(MessagesDeduped)
	prometheus.MustRegister(MessagesDropped)
	prometheus.MustRegister(TransportErrors)
	prometheus.MustRegister(SnapshotTransitions)
	prometheus.MustRegister(ReconcileCycles)
	prometheus.MustRegister(ReconcileCorrections)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
