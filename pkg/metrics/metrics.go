package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tool invocation counts by operation and outcome (ok, validation_error,
	// unknown_operation, storage_error).
	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"operation", "outcome"},
	)

	// Tool invocation latency in seconds.
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tool_invocation_duration_seconds",
			Help:    "Tool invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	// Validation failures by operation and offending field.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total number of argument validation failures",
		},
		[]string{"operation", "field"},
	)

	// Database statement latency in seconds.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	// Resource read counts by URI and outcome.
	ResourceReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_reads_total",
			Help: "Total number of resource reads",
		},
		[]string{"uri", "outcome"},
	)
)

// RecordToolInvocation records one dispatcher invocation.
func RecordToolInvocation(operation, outcome string, duration time.Duration) {
	ToolInvocations.WithLabelValues(operation, outcome).Inc()
	ToolDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncValidationFailure counts a rejected argument set.
func IncValidationFailure(operation, field string) {
	ValidationFailures.WithLabelValues(operation, field).Inc()
}

// RecordDBQueryDuration records one database round-trip.
func RecordDBQueryDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncResourceRead counts a resource read.
func IncResourceRead(uri, outcome string) {
	ResourceReads.WithLabelValues(uri, outcome).Inc()
}
