// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the function.
type Metrics struct {
	// Invocation metrics
	InvocationsTotal *prometheus.CounterVec
	StageErrors      *prometheus.CounterVec
	PointsEmitted    prometheus.Histogram

	// Fetch metrics
	FetchLatency prometheus.Histogram
	FetchErrors  prometheus.Counter

	// Emit metrics
	InstructionBytes prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "vortex_oracle"
	}

	return &Metrics{
		InvocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "function",
			Name:      "invocations_total",
			Help:      "Total number of invocations by outcome",
		}, []string{"status"}),
		StageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "function",
			Name:      "stage_errors_total",
			Help:      "Total number of stage failures by stage and reason",
		}, []string{"stage", "reason"}),
		PointsEmitted: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "function",
			Name:      "points_emitted",
			Help:      "Distribution of emitted point totals",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		FetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "twitter",
			Name:      "fetch_latency_seconds",
			Help:      "Tweet fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		FetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "twitter",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed tweet fetches",
		}),
		InstructionBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "settle",
			Name:      "instruction_bytes",
			Help:      "Serialized size of emitted settle instructions",
			Buckets:   prometheus.LinearBuckets(100, 100, 7),
		}),
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

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordInvocation increments the invocation counter for an outcome.
func RecordInvocation(status string) {
	DefaultMetrics.InvocationsTotal.WithLabelValues(status).Inc()
}

// RecordStageError records a stage failure.
func RecordStageError(stage, reason string) {
	DefaultMetrics.StageErrors.WithLabelValues(stage, reason).Inc()
}

// RecordPoints records an emitted point total.
func RecordPoints(points uint64) {
	DefaultMetrics.PointsEmitted.Observe(float64(points))
}

// RecordFetch records tweet fetch latency and outcome.
func RecordFetch(seconds float64, err error) {
	DefaultMetrics.FetchLatency.Observe(seconds)
	if err != nil {
		DefaultMetrics.FetchErrors.Inc()
	}
}

// RecordInstructionSize records the serialized size of an instruction.
func RecordInstructionSize(bytes int) {
	DefaultMetrics.InstructionBytes.Observe(float64(bytes))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
