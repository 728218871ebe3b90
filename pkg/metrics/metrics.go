package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the collector registry exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets tuned for API handlers and single-row SQL statements
	CustomAPIBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBOperationTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	QuoteRequestsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_quote_requests_created_total",
			Help: "Total number of quote requests submitted from the public site",
		},
		[]string{"status"},
	)

	QuoteRequestStatusUpdates = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_quote_request_status_updates_total",
			Help: "Quote request status changes",
		},
		[]string{"from_status", "to_status"},
	)

	ContactMessagesReceived = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_contact_messages_received_total",
			Help: "Total number of contact messages received",
		},
		[]string{"spam"},
	)

	TrashOperations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_trash_operations_total",
			Help: "Soft delete, restore and purge operations by entity kind",
		},
		[]string{"entity", "operation"},
	)

	NotificationsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_notifications_created_total",
			Help: "Persisted notifications by kind and recipient type",
		},
		[]string{"kind", "recipient"},
	)

	MailDeliveries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_mail_deliveries_total",
			Help: "Outgoing notification mails by result",
		},
		[]string{"status"},
	)

	MailQueueDepth = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "renov_mail_queue_depth",
			Help: "Number of mails waiting in the delivery queue",
		},
	)

	MailSendRetries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_mail_send_retries_total",
			Help: "Retried provider calls by operation",
		},
		[]string{"operation"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open
	BreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "renov_circuit_breaker_state",
			Help: "Current state of each circuit breaker",
		},
		[]string{"breaker"},
	)

	LoginAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renov_login_attempts_total",
			Help: "Back-office login attempts",
		},
		[]string{"status"},
	)

	// Outbound HTTP Metrics
	HTTPClientRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Outbound HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"peer", "http_request_method", "http_response_status_code"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)

	serviceInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "renov_service_info",
			Help: "Static service information",
		},
		[]string{"service_name"},
	)
)

// Init registers process collectors and publishes the service name
func Init(serviceName string) {
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serviceInfo.WithLabelValues(serviceName).Set(1)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// RecordDB records a database operation outcome
func RecordDB(operation, status string, start time.Time) float64 {
	duration := MeasureDuration(start)
	DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	DBOperationTotal.WithLabelValues(operation, status).Inc()
	return duration
}
