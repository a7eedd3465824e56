package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// MenteeHandler handles mentor-facing mentee management endpoints
type MenteeHandler struct {
	service services.MenteeServiceInterface
}

// NewMenteeHandler creates a new MenteeHandler
func NewMenteeHandler(service services.MenteeServiceInterface) *MenteeHandler {
	return &MenteeHandler{
		service: service,
	}
}

// ListMentees handles GET /api/v1/mentees
// Returns the session mentor's mentees with the stage distribution
func (h *MenteeHandler) ListMentees(c *gin.Context) {
	session, err := middleware.GetMentorSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resp, err := h.service.ListMentees(c.Request.Context(), session.MentorID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list mentees", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterMentee handles POST /api/v1/mentees
// Enrolls a new mentee and returns the issued capability token. This is
// the only place the token is ever shown: the mentor passes it to the
// mentee out of band.
func (h *MenteeHandler) RegisterMentee(c *gin.Context) {
	session, err := middleware.GetMentorSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.RegisterMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.service.RegisterMentee(c.Request.Context(), session.MentorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			respondError(c, http.StatusNotFound, "Not found", err)
		case errors.Is(err, apperrors.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error(), err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to register mentee", err)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CreateNavigator handles POST /api/v1/navigators
// Adds a navigator owned by the session mentor
func (h *MenteeHandler) CreateNavigator(c *gin.Context) {
	session, err := middleware.GetMentorSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateNavigatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	navigator, err := h.service.CreateNavigator(c.Request.Context(), session.MentorID, &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create navigator", err)
		return
	}

	c.JSON(http.StatusCreated, navigator)
}
