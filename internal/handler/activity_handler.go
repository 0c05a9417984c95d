package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swarmfeedback/internal/service"
)

// ActivityHandler reads the audit trail.
type ActivityHandler struct {
	svc service.ActivityService
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(svc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// ListMine godoc
// @Summary The caller's activity, newest first
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ActivityLog
// @Failure 401 {object} errors.ErrorResponse
// @Router /activity/my [get]
func (h *ActivityHandler) ListMine(c echo.Context) error {
	logs, err := h.svc.ListMine(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// ListForUser godoc
// @Summary A user's activity
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} model.ActivityLog
// @Failure 403 {object} errors.ErrorResponse
// @Router /activity/user/{id} [get]
func (h *ActivityHandler) ListForUser(c echo.Context) error {
	logs, err := h.svc.ListForUser(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
