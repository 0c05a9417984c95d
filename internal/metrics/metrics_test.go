package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsRouteTemplate(t *testing.T) {
	m := New("swarm")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/submissions/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/abc", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/submissions/:id", "204"))
	assert.Equal(t, float64(1), got)
}

func TestMiddleware_RecordsHTTPErrorStatus(t *testing.T) {
	m := New("swarm")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "400")))
}

func TestDomainCounters(t *testing.T) {
	m := New("swarm")
	m.AuthEvent("signin", false)
	m.FeedbackCreated("PENDING")
	m.StatusChanged("feedback", "APPROVED")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("signin", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FeedbackTotal.WithLabelValues("PENDING")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StatusChangesTotal.WithLabelValues("feedback", "APPROVED")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "swarm_auth_events_total")
}

func TestNilMetrics_IsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AuthEvent("signup", true)
		m.SubmissionCreated("PENDING")
		m.ActivityDropped()
		m.MailFailed()
	})
}
