// Package metrics exposes Prometheus collectors for HTTP traffic and item
// lifecycle events.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "najdeno_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	itemEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_item_events_total",
		Help: "Item lifecycle events by type",
	}, []string{"event"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_registrations_total",
		Help: "Registration attempts by result",
	}, []string{"result"})

	reportsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "najdeno_reports_submitted_total",
		Help: "Reports submitted",
	})
)

// ObserveHTTPRequest records an HTTP request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveItemEvent counts an item event such as "created" or "deleted".
func ObserveItemEvent(event string) {
	itemEvents.WithLabelValues(event).Inc()
}

// ObserveLogin counts a login attempt with result "success" or "failure".
func ObserveLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

// ObserveRegistration counts a registration with result "created" or
// "conflict".
func ObserveRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

// ObserveReport counts a submitted report.
func ObserveReport() {
	reportsSubmitted.Inc()
}
