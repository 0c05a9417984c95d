package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/service"
)

// UserHandler serves profiles, the leaderboard and admin user management.
type UserHandler struct {
	svc   service.UserService
	files service.FileService
}

// NewUserHandler creates a user handler.
func NewUserHandler(svc service.UserService, files service.FileService) *UserHandler {
	return &UserHandler{svc: svc, files: files}
}

// UpdateProfileRequest holds editable profile fields. Omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Name       *string  `json:"name" validate:"omitempty,max=255"`
	Bio        *string  `json:"bio" validate:"omitempty,max=2000"`
	Age        *int     `json:"age" validate:"omitempty,min=0,max=150"`
	RegNumber  *string  `json:"regNumber" validate:"omitempty,max=64"`
	ProfilePic *string  `json:"profilePic" validate:"omitempty,max=512"`
	Skills     []string `json:"skills"`
}

// GetMe godoc
// @Summary Current user's profile
// @Description Includes the rating average computed on read; null when there is nothing to average.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	profile, err := h.svc.GetMe(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateMe(c.Request().Context(), principalFrom(c), service.UpdateProfileInput{
		Name:       req.Name,
		Bio:        req.Bio,
		Age:        req.Age,
		RegNumber:  req.RegNumber,
		ProfilePic: req.ProfilePic,
		Skills:     req.Skills,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UploadPicture godoc
// @Summary Upload a profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/picture [post]
func (h *UserHandler) UploadPicture(c echo.Context) error {
	p := principalFrom(c)
	if !p.IsAuthenticated() {
		return fail(c, apperrors.ErrUnauthorized)
	}
	url, err := uploadFormFile(c, h.files)
	if err != nil {
		return err
	}
	user, err := h.svc.SetProfilePicture(c.Request().Context(), p, url)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Leaderboard godoc
// @Summary Top reviewers by points
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.LeaderboardEntry
// @Router /users/leaderboard [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	entries, err := h.svc.Leaderboard(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Delete godoc
// @Summary Delete a user
// @Description Removes the account only; submissions and feedback stay.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.svc.DeleteUser(c.Request().Context(), principalFrom(c), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
