package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enempro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "enempro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "enempro",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Auth metrics
	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enempro",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"result"},
	)

	gateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enempro",
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Request gate decisions by action",
		},
		[]string{"action"},
	)

	// Entitlement metrics
	entitlementEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enempro",
			Subsystem: "entitlement",
			Name:      "evaluations_total",
			Help:      "Entitlement evaluations by resulting state",
		},
		[]string{"state"},
	)

	renewalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "enempro",
			Subsystem: "entitlement",
			Name:      "renewals_total",
			Help:      "Access keys created by the renewal worker",
		},
	)
)

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count, duration and in-flight gauge
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the /metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLoginAttempt records a login attempt result (success, failure, error)
func RecordLoginAttempt(result string) {
	loginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordGateDecision records a request gate decision (pass, redirect_login, redirect_home)
func RecordGateDecision(action string) {
	gateDecisionsTotal.WithLabelValues(action).Inc()
}

// RecordEvaluation records an entitlement evaluation result state
func RecordEvaluation(state string) {
	entitlementEvaluationsTotal.WithLabelValues(state).Inc()
}

// RecordRenewal records a renewal-worker issued key
func RecordRenewal() {
	renewalsTotal.Inc()
}
