package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payments_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	initiationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_initiations_total",
			Help: "Payment initiation attempts by result",
		},
		[]string{"result"},
	)

	callbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_callbacks_total",
			Help: "Gateway callbacks by reconciliation outcome",
		},
		[]string{"outcome"},
	)

	cancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_cancellations_total",
			Help: "Payment cancellations by result",
		},
		[]string{"result"},
	)
)

// RecordInitiation counts a payment initiation attempt
func RecordInitiation(result string) {
	initiationsTotal.WithLabelValues(result).Inc()
}

// RecordCallback counts a gateway callback by its reconciliation outcome
func RecordCallback(outcome string) {
	callbacksTotal.WithLabelValues(outcome).Inc()
}

// RecordCancellation counts a cancellation attempt
func RecordCancellation(result string) {
	cancellationsTotal.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HTTPMiddleware records request counts and latencies per route pattern
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		// collapse the one parameterized route to keep label cardinality bounded
		if strings.HasPrefix(path, "/api/v1/payments/status/") {
			path = "/api/v1/payments/status/{orderId}"
		}
		httpRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(recorder.status)).Inc()
	})
}
