package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swarmfeedback/internal/service"
)

// MessageHandler serves the admin inbox.
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler creates a message handler.
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// SendMessageRequest is a message to the administrators.
type SendMessageRequest struct {
	Subject     string `json:"subject" validate:"required,max=255"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaUrl" validate:"omitempty,url"`
}

// Send godoc
// @Summary Message the administrators
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	message, err := h.svc.Send(c.Request().Context(), principalFrom(c), service.SendMessageInput{
		Subject:     req.Subject,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, message)
}

// List godoc
// @Summary Inbox, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Message
// @Failure 403 {object} errors.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	messages, err := h.svc.List(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}

// MarkRead godoc
// @Summary Mark a message read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} model.Message
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	message, err := h.svc.MarkRead(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, message)
}
