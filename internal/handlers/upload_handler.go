package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// UploadHandler handles video upload endpoints
type UploadHandler struct {
	service services.UploadServiceInterface
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service services.UploadServiceInterface) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// UploadVideo handles POST /api/v1/mentees/:id/uploads
// Accepts a multipart "video" file and stores it against the mentee bound
// by the ownership policy.
func (h *UploadHandler) UploadVideo(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Missing video file", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read video file", err)
		return
	}
	defer file.Close()

	upload, err := h.service.UploadVideo(
		c.Request.Context(),
		mentee,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to upload video", err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}
