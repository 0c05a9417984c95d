package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swarmfeedback/internal/service"
)

// SubmissionHandler exposes the submission workflow.
type SubmissionHandler struct {
	svc service.SubmissionService
}

// NewSubmissionHandler creates a submission handler.
func NewSubmissionHandler(svc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// CreateSubmissionRequest is the body of POST /submissions.
type CreateSubmissionRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	FileURLs    []string `json:"fileUrls"`
	Tags        []string `json:"tags"`
}

// StatusRequest sets a moderation status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create godoc
// @Summary Create a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSubmissionRequest true "Submission"
// @Success 201 {object} model.Submission
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c echo.Context) error {
	var req CreateSubmissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	submission, err := h.svc.Create(c.Request().Context(), principalFrom(c), service.CreateSubmissionInput{
		Title:       req.Title,
		Description: req.Description,
		FileURLs:    req.FileURLs,
		Tags:        req.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, submission)
}

// List godoc
// @Summary List visible submissions
// @Description Admins see every submission, everyone else approved ones plus their own.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Submission
// @Failure 401 {object} errors.ErrorResponse
// @Router /submissions [get]
func (h *SubmissionHandler) List(c echo.Context) error {
	submissions, err := h.svc.List(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, submissions)
}

// ListMine godoc
// @Summary List the caller's submissions
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Submission
// @Failure 401 {object} errors.ErrorResponse
// @Router /submissions/my [get]
func (h *SubmissionHandler) ListMine(c echo.Context) error {
	submissions, err := h.svc.ListMine(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, submissions)
}

// Get godoc
// @Summary Get a submission
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} model.Submission
// @Failure 404 {object} errors.ErrorResponse
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) Get(c echo.Context) error {
	submission, err := h.svc.Get(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, submission)
}

// UpdateStatus godoc
// @Summary Set a submission status
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body StatusRequest true "PENDING, APPROVED or REJECTED"
// @Success 200 {object} model.Submission
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /submissions/{id}/status [put]
func (h *SubmissionHandler) UpdateStatus(c echo.Context) error {
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	submission, err := h.svc.UpdateStatus(c.Request().Context(), principalFrom(c), c.Param("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, submission)
}
