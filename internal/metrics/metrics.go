// Package metrics exports Prometheus collectors for the HTTP layer and the domain workflows.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector of the service. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	AuthEventsTotal     *prometheus.CounterVec
	SubmissionsTotal    *prometheus.CounterVec
	FeedbackTotal       *prometheus.CounterVec
	StatusChangesTotal  *prometheus.CounterVec
	ActivityFailures    prometheus.Counter
	MailDeliveryFailure prometheus.Counter
}

// New creates the collectors on a private registry, together with Go and process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		AuthEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_events_total",
				Help:      "Authentication events by type and result",
			},
			[]string{"event", "result"},
		),
		SubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_created_total",
				Help:      "Submissions created, by initial status",
			},
			[]string{"status"},
		),
		FeedbackTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feedback_created_total",
				Help:      "Feedback created, by initial status",
			},
			[]string{"status"},
		),
		StatusChangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_changes_total",
				Help:      "Moderation status changes by entity and new status",
			},
			[]string{"entity", "status"},
		),
		ActivityFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activity_log_failures_total",
				Help:      "Activity log appends that failed and were dropped",
			},
		),
		MailDeliveryFailure: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mail_delivery_failures_total",
				Help:      "Outgoing mails that could not be delivered",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, latency and in-flight requests.
// Paths are labelled with the route template so ids do not explode cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The error handler writes the response after the middleware chain returns.
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) AuthEvent(event string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.AuthEventsTotal.WithLabelValues(event, result).Inc()
}

func (m *Metrics) SubmissionCreated(status string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) FeedbackCreated(status string) {
	if m == nil {
		return
	}
	m.FeedbackTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) StatusChanged(entity, status string) {
	if m == nil {
		return
	}
	m.StatusChangesTotal.WithLabelValues(entity, status).Inc()
}

func (m *Metrics) ActivityDropped() {
	if m == nil {
		return
	}
	m.ActivityFailures.Inc()
}

func (m *Metrics) MailFailed() {
	if m == nil {
		return
	}
	m.MailDeliveryFailure.Inc()
}
