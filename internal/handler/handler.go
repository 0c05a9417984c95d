// Package handler adapts HTTP requests to service calls.
package handler

import (
	"log/slog"
	"net/http"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// principalFrom returns the caller identity stored by the auth middleware,
// or the anonymous principal when the route is public.
func principalFrom(c echo.Context) auth.Principal {
	if p, ok := c.Get(auth.PrincipalKey).(auth.Principal); ok {
		return p
	}
	return auth.Anonymous()
}

// bind decodes and validates a request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fail(c, apperrors.BadRequest("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return fail(c, apperrors.BadRequest(err.Error()))
	}
	return nil
}

// fail converts a service error into an echo.HTTPError carrying ErrorResponse.
// Internal failures are logged and reported to Sentry; the client only sees a generic message.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		if hub := sentryecho.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
