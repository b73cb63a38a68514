/*
Package metrics provides Prometheus metrics collection and exposition for
the node subsystem.

Metrics are registered at package init against the global Prometheus
registry and exposed over HTTP for scraping.

# Metrics Catalog

nodefabric_nodes_by_state{state}:
  - Type: Gauge
  - Description: Nodes observed in each state (alive, dead, inaccessible, undefined) during the last List
  - Example: nodefabric_nodes_by_state{state="alive"} 3

nodefabric_nodes_created_total:
  - Type: Counter
  - Description: Nodes created by this process since start

nodefabric_cleanups_performed_total:
  - Type: Counter
  - Description: Stale-resource cleanups this process actually won and performed

nodefabric_cleanups_lost_race_total:
  - Type: Counter
  - Description: Cleanup attempts where another cleaner had already claimed the marker

nodefabric_cleanup_failures_total{kind}:
  - Type: Counter
  - Description: Failed cleanup attempts by CleanupFailure kind

nodefabric_enumeration_duration_seconds:
  - Type: Histogram
  - Description: Time to walk the monitoring directory and classify every entry

nodefabric_wait_ticks_total:
  - Type: Counter
  - Description: Tick events returned by Wait across this process's event loops

nodefabric_registered_services_open_total / _close_total:
  - Type: Counter
  - Description: Service opens/closes recorded against any node's RegisteredServices

# Usage

	timer := metrics.NewTimer()
	err := node.List(cfg, cb)
	timer.ObserveDuration(metrics.EnumerationDuration)

	metrics.NodesCreatedTotal.Inc()
	metrics.CleanupFailuresTotal.WithLabelValues("insufficient-permissions").Inc()

	http.Handle("/metrics", metrics.Handler())

# Health and Readiness

pkg/metrics also exposes a small HealthChecker independent of Prometheus,
used by cmd/nodectl to answer /health, /ready and /live. Readiness treats
monitoring, staticstorage and signalwatch as critical components: a
nodectl instance isn't ready until all three have reported in.
*/
package metrics
