package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration is labelled with the chi route pattern, not the raw
	// path, so that ids do not explode the label set.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devcheck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// ChecklistWrites counts successful writes per entity kind.
	ChecklistWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcheck_checklist_writes_total",
			Help: "Total number of checklist entities created, updated or deleted",
		},
		[]string{"entity", "operation"}, // operation: create, update, delete
	)

	// AuthAttempts counts token requests by outcome.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcheck_auth_attempts_total",
			Help: "Total number of token requests",
		},
		[]string{"kind", "result"}, // kind: login, refresh; result: success, failure
	)
)

// RecordHTTPRequestDuration records one finished request.
func RecordHTTPRequestDuration(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordWrite counts a successful create, update or delete.
func RecordWrite(entity, operation string) {
	ChecklistWrites.WithLabelValues(entity, operation).Inc()
}

// RecordAuthAttempt counts a login or refresh outcome.
func RecordAuthAttempt(kind string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	AuthAttempts.WithLabelValues(kind, result).Inc()
}

// Middleware observes request durations.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		RecordHTTPRequestDuration(r.Method, RoutePattern(r), statusOf(ww), time.Since(start))
	})
}

// RoutePattern returns the matched chi route, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
