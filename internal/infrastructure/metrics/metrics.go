package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Answer stream counters
	StreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "streams_total",
			Help:      "Total proxied answer streams by outcome",
		},
		[]string{"outcome"},
	)

	// Stream duration histogram
	StreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "stream_duration_seconds",
			Help:      "Answer stream duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	// Forwarded chunk counter
	ChunksForwardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "chunks_forwarded_total",
			Help:      "Raw provider chunks forwarded to clients",
		},
	)

	// Exchange persistence counter
	ExchangesSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "exchanges_saved_total",
			Help:      "Persisted query/answer exchanges",
		},
		[]string{"thread"},
	)

	// DB query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alethiq",
			Subsystem: "chat_api",
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"query_type"},
	)
)

// Stream outcomes.
const (
	StreamOutcomeCompleted = "completed"
	StreamOutcomeUpstream  = "upstream_error"
	StreamOutcomeCancelled = "cancelled"
)

// Exchange thread dispositions.
const (
	ThreadCreated  = "created"
	ThreadAppended = "appended"
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordStream records one proxied answer stream
func RecordStream(outcome string, durationSec float64) {
	StreamsTotal.WithLabelValues(outcome).Inc()
	StreamDuration.WithLabelValues(outcome).Observe(durationSec)
}

// RecordExchangeSaved records a persisted exchange
func RecordExchangeSaved(thread string) {
	ExchangesSavedTotal.WithLabelValues(thread).Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(queryType string, durationSec float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(durationSec)
}
