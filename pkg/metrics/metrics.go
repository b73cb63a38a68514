package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NodesByState tracks how many registered NodeIds the last
	// enumeration classified into each NodeState.
	NodesByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nodefabric_nodes_by_state",
			Help: "Number of nodes observed in each state during the last enumeration",
		},
		[]string{"state"},
	)

	NodesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodefabric_nodes_created_total",
			Help: "Total number of nodes created by this process",
		},
	)

	CleanupsPerformedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodefabric_cleanups_performed_total",
			Help: "Total number of stale-resource cleanups this process actually performed",
		},
	)

	CleanupsLostRaceTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodefabric_cleanups_lost_race_total",
			Help: "Total number of cleanup attempts that found another cleaner had already won",
		},
	)

	CleanupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodefabric_cleanup_failures_total",
			Help: "Total number of cleanup attempts that failed, by failure kind",
		},
		[]string{"kind"},
	)

	EnumerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodefabric_enumeration_duration_seconds",
			Help:    "Time taken to enumerate the monitoring directory and classify every entry",
			Buckets: prometheus.DefBuckets,
		},
	)

	WaitTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodefabric_wait_ticks_total",
			Help: "Total number of Tick events returned by Wait",
		},
	)

	RegisteredServicesOpenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodefabric_registered_services_open_total",
			Help: "Total number of successful service opens across all nodes in this process",
		},
	)

	RegisteredServicesCloseTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nodefabric_registered_services_close_total",
			Help: "Total number of service closes across all nodes in this process",
		},
	)
)

func init() {
	prometheus.MustRegister(NodesByState)
	prometheus.MustRegister(NodesCreatedTotal)
	prometheus.MustRegister(CleanupsPerformedTotal)
	prometheus.MustRegister(CleanupsLostRaceTotal)
	prometheus.MustRegister(CleanupFailuresTotal)
	prometheus.MustRegister(EnumerationDuration)
	prometheus.MustRegister(WaitTicksTotal)
	prometheus.MustRegister(RegisteredServicesOpenTotal)
	prometheus.MustRegister(RegisteredServicesCloseTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
