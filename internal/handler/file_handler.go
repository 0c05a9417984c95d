package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/service"
)

// FileHandler accepts uploads and serves stored files.
type FileHandler struct {
	files service.FileService
}

// NewFileHandler creates a file handler.
func NewFileHandler(files service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// UploadResponse carries the public URL of a stored upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /files/upload [post]
func (h *FileHandler) Upload(c echo.Context) error {
	url, err := uploadFormFile(c, h.files)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UploadResponse{URL: url})
}

// Serve streams an uploaded file.
func (h *FileHandler) Serve(c echo.Context) error {
	obj, err := h.files.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		return fail(c, err)
	}
	defer obj.Body.Close()
	if obj.Size >= 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	return c.Stream(http.StatusOK, obj.ContentType, obj.Body)
}

// uploadFormFile stores the multipart field "file" and returns its public URL.
// Errors are already converted for echo.
func uploadFormFile(c echo.Context, files service.FileService) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", fail(c, apperrors.BadRequest("multipart field 'file' is required"))
	}
	src, err := header.Open()
	if err != nil {
		return "", fail(c, err)
	}
	defer src.Close()

	contentType := header.Header.Get(echo.HeaderContentType)
	url, err := files.Upload(c.Request().Context(), header.Filename, src, header.Size, contentType)
	if err != nil {
		return "", fail(c, err)
	}
	return url, nil
}
