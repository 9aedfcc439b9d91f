package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the REST adapter.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	batchOperationsTotal  *prometheus.CounterVec
	batchOperationSeconds *prometheus.HistogramVec
	recordsProcessedTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics. A nil
// registerer uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logcrunch_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logcrunch_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		batchOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logcrunch_batch_operations_total",
				Help: "Total number of batch operations",
			},
			[]string{"operation", "status"},
		),
		batchOperationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logcrunch_batch_operation_duration_seconds",
				Help:    "Batch operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		recordsProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logcrunch_records_processed_total",
				Help: "Total number of input records handled, by shape",
			},
			[]string{"shape"},
		),
	}
}

// RecordBatchOperation records one engine invocation.
func (m *Metrics) RecordBatchOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.batchOperationsTotal.WithLabelValues(operation, status).Inc()
	m.batchOperationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRecordsProcessed adds to the per-shape input counter.
func (m *Metrics) RecordRecordsProcessed(shape string, n int) {
	m.recordsProcessedTotal.WithLabelValues(shape).Add(float64(n))
}

// InstrumentHandler instruments an HTTP handler with request metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
