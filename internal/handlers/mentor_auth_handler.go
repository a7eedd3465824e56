package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// MentorAuthHandler handles mentor authentication endpoints
type MentorAuthHandler struct {
	service services.MentorAuthServiceInterface
}

// NewMentorAuthHandler creates a new MentorAuthHandler
func NewMentorAuthHandler(service services.MentorAuthServiceInterface) *MentorAuthHandler {
	return &MentorAuthHandler{
		service: service,
	}
}

// Register handles POST /api/v1/auth/mentor/register
func (h *MentorAuthHandler) Register(c *gin.Context) {
	var req models.RegisterMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	mentor, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "Email already registered", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"mentor":  mentor,
	})
}

// Login handles POST /api/v1/auth/mentor/login
// Verifies credentials and sets the session cookie
func (h *MentorAuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, jwtToken, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	middleware.SetSessionCookie(
		c,
		jwtToken,
		h.service.GetSessionTTL(),
		h.service.GetCookieDomain(),
		h.service.GetCookieSecure(),
	)

	c.JSON(http.StatusOK, models.LoginResponse{
		Success: true,
		Session: session,
	})
}

// Logout handles POST /api/v1/auth/mentor/logout
// Clears the session cookie
func (h *MentorAuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(
		c,
		h.service.GetCookieDomain(),
		h.service.GetCookieSecure(),
	)

	c.JSON(http.StatusOK, models.LogoutResponse{
		Success: true,
	})
}

// GetSession handles GET /api/v1/auth/mentor/session
// Returns the current session info (for session validation)
func (h *MentorAuthHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetMentorSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}
