/*
Package metrics provides Prometheus metrics and health checking for page
processes.

Metrics are package-level collectors registered in init(), following the
standard client_golang pattern. A page exposes them together with /healthz,
/ready, and /live endpoints only when metrics_addr is configured; interactive
one-shot commands (compare, weights) skip the listener entirely.

# Metric Groups

Feed metrics:
  - baekilha_feed_fetches_total{feed, outcome}
  - baekilha_feed_fetch_duration_seconds{feed}
  - baekilha_feed_retries_total{feed}

Fusion metrics:
  - baekilha_entities_fused{kind}
  - baekilha_degraded_loads_total{kind}

Channel metrics:
  - baekilha_channel_messages_published_total{type, transport}
  - baekilha_channel_messages_received_total{type, transport}
  - baekilha_channel_messages_deduped_total
  - baekilha_channel_messages_dropped_total{reason}
  - baekilha_channel_transport_errors_total{transport}

Snapshot and reconciliation:
  - baekilha_snapshot_transitions_total{mode}
  - baekilha_reconcile_cycles_total
  - baekilha_reconcile_corrections_total

# Health Checking

Components register with RegisterComponent and update via UpdateComponent.
GetHealth aggregates everything; GetReadiness only gates on storage and
channel — feed failures degrade the data but never block a page from serving
the default dataset.

# Usage

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())
	mux.HandleFunc("/live", metrics.LivenessHandler())

	collector := metrics.NewCollector(store)
	collector.Start()
	defer collector.Stop()

	timer := metrics.NewTimer()
	// ... fetch ...
	timer.ObserveDurationVec(metrics.FeedFetchDuration, "member_performance")
*/
package metrics
