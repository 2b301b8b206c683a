package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediassist_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediassist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, .75, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediassist_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	recordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediassist_records_created_total",
			Help: "Records created per resource",
		},
		[]string{"resource"},
	)

	recordsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediassist_records_deleted_total",
			Help: "Records deleted per resource",
		},
		[]string{"resource"},
	)

	appointmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediassist_appointment_transitions_total",
			Help: "Appointment status changes",
		},
		[]string{"from_status", "to_status"},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediassist_logins_total",
			Help: "Login attempts by resulting role",
		},
		[]string{"role"},
	)

	dosesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediassist_doses_recorded_total",
			Help: "Medication doses logged by status",
		},
		[]string{"status"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count, latency and in-flight gauge. The route
// label is the chi pattern so ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func RecordCreated(resource string) {
	recordsCreated.WithLabelValues(resource).Inc()
}

func RecordDeleted(resource string) {
	recordsDeleted.WithLabelValues(resource).Inc()
}

func RecordAppointmentTransition(from, to string) {
	appointmentTransitions.WithLabelValues(from, to).Inc()
}

func RecordLogin(role string) {
	logins.WithLabelValues(role).Inc()
}

func RecordDose(status string) {
	dosesRecorded.WithLabelValues(status).Inc()
}
