package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// ScheduleHandler handles availability and meeting endpoints
type ScheduleHandler struct {
	service services.ScheduleServiceInterface
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(service services.ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
	}
}

// PublishSlot handles POST /api/v1/slots
func (h *ScheduleHandler) PublishSlot(c *gin.Context) {
	session, err := middleware.GetMentorSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	slot, err := h.service.PublishSlot(c.Request.Context(), session.MentorID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to publish slot", err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ListMeetings handles GET /api/v1/slots
// Returns the meetings booked against the session mentor's slots
func (h *ScheduleHandler) ListMeetings(c *gin.Context) {
	session, err := middleware.GetMentorSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	meetings, err := h.service.ListMeetings(c.Request.Context(), session.MentorID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list meetings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// AvailableDates handles GET /mentee/available-dates
// Lists the calendar days with open slots from the mentee's own mentor
func (h *ScheduleHandler) AvailableDates(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	dates, err := h.service.AvailableDates(c.Request.Context(), mentee)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list available dates", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// OpenSlots handles GET /mentee/slots?day=02/01/2006
func (h *ScheduleHandler) OpenSlots(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	day, err := time.Parse("02/01/2006", c.Query("day"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "day must be in format 02/01/2006", err)
		return
	}

	slots, err := h.service.OpenSlotsForDay(c.Request.Context(), mentee, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list slots", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// BookMeeting handles POST /mentee/meetings
func (h *ScheduleHandler) BookMeeting(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	var req models.BookMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	meeting, err := h.service.BookMeeting(c.Request.Context(), mentee, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			respondError(c, http.StatusNotFound, "Not found", err)
		case errors.Is(err, apperrors.ErrSlotTaken):
			respondError(c, http.StatusConflict, "Slot already booked", err)
		case errors.Is(err, apperrors.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error(), err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to book meeting", err)
		}
		return
	}

	c.JSON(http.StatusCreated, meeting)
}
