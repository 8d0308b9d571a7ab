// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	RunsTotal          *prometheus.CounterVec
	RunDuration        *prometheus.HistogramVec
	PathsSimulated     prometheus.Counter
	MonthsSimulated    prometheus.Counter
	ValidationFailures prometheus.Counter

	// Baseline metrics
	BaselinesCaptured prometheus.Counter
	BaselinesDeleted  prometheus.Counter
	BaselineDiffs     prometheus.Counter

	// Server metrics
	ActiveWSClients  prometheus.Gauge
	WSPushesTotal    prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	ReportsGenerated prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rentvsbuy_lab"
	}

	return &Metrics{
		// Simulation metrics
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by city and status",
		}, []string{"city", "status"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Full compose-and-aggregate duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"city"}),
		PathsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "paths_simulated_total",
			Help:      "Total number of Monte Carlo paths simulated",
		}),
		MonthsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "months_simulated_total",
			Help:      "Total path-months simulated",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "validation_failures_total",
			Help:      "Total number of config validation failures",
		}),

		// Baseline metrics
		BaselinesCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "baseline",
			Name:      "captured_total",
			Help:      "Total number of baseline snapshots captured",
		}),
		BaselinesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "baseline",
			Name:      "deleted_total",
			Help:      "Total number of baseline snapshots deleted",
		}),
		BaselineDiffs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "baseline",
			Name:      "diffs_total",
			Help:      "Total number of baseline delta computations",
		}),

		// Server metrics
		ActiveWSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "active_ws_clients",
			Help:      "Current number of connected websocket clients",
		}),
		WSPushesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_pushes_total",
			Help:      "Total number of result frames pushed over websocket",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRun records one completed (or failed) simulation run.
func RecordRun(city, status string, durationSeconds float64, paths, months int) {
	DefaultMetrics.RunsTotal.WithLabelValues(city, status).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(city).Observe(durationSeconds)
	DefaultMetrics.PathsSimulated.Add(float64(paths))
	DefaultMetrics.MonthsSimulated.Add(float64(paths * months))
}

// RecordValidationFailure increments the validation failure counter.
func RecordValidationFailure() {
	DefaultMetrics.ValidationFailures.Inc()
}

// RecordBaselineCaptured increments the baselines captured counter.
func RecordBaselineCaptured() {
	DefaultMetrics.BaselinesCaptured.Inc()
}

// RecordBaselineDeleted increments the baselines deleted counter.
func RecordBaselineDeleted() {
	DefaultMetrics.BaselinesDeleted.Inc()
}

// RecordBaselineDiff increments the baseline delta counter.
func RecordBaselineDiff() {
	DefaultMetrics.BaselineDiffs.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
