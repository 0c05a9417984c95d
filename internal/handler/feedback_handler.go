package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swarmfeedback/internal/service"
)

// FeedbackHandler exposes the feedback workflow.
type FeedbackHandler struct {
	svc service.FeedbackService
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(svc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// CreateFeedbackRequest is the body of POST /feedback. Rating bounds are
// checked by the service so the error carries INVALID_RATING.
type CreateFeedbackRequest struct {
	SubmissionID string `json:"submissionId" validate:"required"`
	Comments     string `json:"comments"`
	Rating       int    `json:"rating"`
}

// UpdateFeedbackRequest is an admin edit; omitted fields stay unchanged.
type UpdateFeedbackRequest struct {
	Comments        *string `json:"comments"`
	Rating          *int    `json:"rating"`
	Status          *string `json:"status"`
	RejectionReason *string `json:"rejectionReason"`
}

// FeedbackStatusRequest sets the feedback status.
type FeedbackStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejectionReason"`
}

// ReplyRequest is the submitter's answer to a feedback.
type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

// Create godoc
// @Summary Give feedback on a submission
// @Description Authentication is optional; anonymous feedback is attributed to "anonymous".
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body CreateFeedbackRequest true "Feedback"
// @Success 201 {object} model.Feedback
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	var req CreateFeedbackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	feedback, err := h.svc.Create(c.Request().Context(), principalFrom(c), service.CreateFeedbackInput{
		SubmissionID: req.SubmissionID,
		Comments:     req.Comments,
		Rating:       req.Rating,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, feedback)
}

// List godoc
// @Summary List feedback
// @Description Admins see all feedback, everyone else approved feedback only.
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Feedback
// @Router /feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	feedback, err := h.svc.List(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feedback)
}

// ListMine godoc
// @Summary Feedback the caller wrote or received
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Feedback
// @Router /feedback/my [get]
func (h *FeedbackHandler) ListMine(c echo.Context) error {
	feedback, err := h.svc.ListMine(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feedback)
}

// ListForSubmission godoc
// @Summary Feedback on one submission
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {array} model.Feedback
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback/submission/{id} [get]
func (h *FeedbackHandler) ListForSubmission(c echo.Context) error {
	feedback, err := h.svc.ListForSubmission(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feedback)
}

// Update godoc
// @Summary Edit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Param request body UpdateFeedbackRequest true "Fields to change"
// @Success 200 {object} model.Feedback
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback/{id} [put]
func (h *FeedbackHandler) Update(c echo.Context) error {
	var req UpdateFeedbackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	feedback, err := h.svc.Update(c.Request().Context(), principalFrom(c), c.Param("id"), service.UpdateFeedbackInput{
		Comments:        req.Comments,
		Rating:          req.Rating,
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feedback)
}

// UpdateStatus godoc
// @Summary Set a feedback status
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Param request body FeedbackStatusRequest true "Status and optional rejection reason"
// @Success 200 {object} model.Feedback
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback/{id}/status [put]
func (h *FeedbackHandler) UpdateStatus(c echo.Context) error {
	var req FeedbackStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	feedback, err := h.svc.UpdateStatus(c.Request().Context(), principalFrom(c), c.Param("id"), req.Status, req.RejectionReason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feedback)
}

// Reply godoc
// @Summary Reply to feedback on your submission
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Param request body ReplyRequest true "Reply"
// @Success 200 {object} model.Feedback
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feedback/{id}/reply [put]
func (h *FeedbackHandler) Reply(c echo.Context) error {
	var req ReplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	feedback, err := h.svc.Reply(c.Request().Context(), principalFrom(c), c.Param("id"), req.Reply)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feedback)
}
