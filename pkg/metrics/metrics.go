package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_requests_total",
			Help: "Total number of ingestion requests handled (count)",
		},
		[]string{"pipeline", "status"},
	)

	IngestRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_request_duration_ms",
			Help:    "Ingestion request handling duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"pipeline"},
	)

	ProcessingMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "processing_messages_total",
			Help: "Total number of deliveries handled by the processing worker (count)",
		},
		[]string{"pipeline", "status"},
	)

	ProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "processing_duration_ms",
			Help:    "Per-delivery processing duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"pipeline"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of completion notifications published (count)",
		},
		[]string{"status"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DLQMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_total",
			Help: "Total number of messages routed to the dead letter topic (count)",
		},
		[]string{"service", "topic", "reason"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_requests_total",
			Help: "Total number of requests seen by the rate limiter (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

func ObserveProcessingDuration(pipeline string, d time.Duration) {
	ProcessingDuration.WithLabelValues(pipeline).Observe(float64(d.Milliseconds()))
}

func ObserveIngestDuration(pipeline string, d time.Duration) {
	IngestRequestDuration.WithLabelValues(pipeline).Observe(float64(d.Milliseconds()))
}

func RegisterIngestionMetrics() {
	register(IngestRequestsTotal)
	register(IngestRequestDuration)
}

func RegisterProcessingMetrics() {
	register(ProcessingMessagesTotal)
	register(ProcessingDuration)
	register(NotificationsTotal)
}

func RegisterBrokerMetrics() {
	register(RetryAttemptsTotal)
	register(DLQMessagesTotal)
}

func RegisterRateLimitMetrics() {
	register(RateLimitRequestsTotal)
}

func RegisterCircuitBreakerMetrics() {
	register(CircuitBreakerState)
}

// register tolerates double registration so tests can set up metrics
// independently of the service entrypoints.
func register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		panic(err)
	}
}
