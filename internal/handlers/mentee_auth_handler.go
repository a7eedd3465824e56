package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// availableDatesPath is where a mentee lands after a successful token submission
const availableDatesPath = "/mentee/available-dates"

// MenteeAuthHandler handles the mentee token-entry and logout endpoints.
// There is no mentee account or server-side session: a successful
// submission only hands the raw token back as an HttpOnly cookie.
type MenteeAuthHandler struct {
	tokenService services.MenteeTokenServiceInterface
	cfg          config.MenteeAuthConfig
}

// NewMenteeAuthHandler creates a new MenteeAuthHandler
func NewMenteeAuthHandler(tokenService services.MenteeTokenServiceInterface, cfg config.MenteeAuthConfig) *MenteeAuthHandler {
	return &MenteeAuthHandler{
		tokenService: tokenService,
		cfg:          cfg,
	}
}

// SubmitToken handles POST /auth/mentee
// On a matching token it sets the capability cookies and redirects to the
// available-dates listing; on a mismatch it redirects back to the entry
// point with an error.
func (h *MenteeAuthHandler) SubmitToken(c *gin.Context) {
	var req models.SubmitTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		metrics.MenteeTokenSubmissions.WithLabelValues("missing").Inc()
		h.redirectBack(c, "Please enter your access token")
		return
	}

	if _, err := h.tokenService.Validate(c.Request.Context(), req.Token); err != nil {
		metrics.MenteeTokenSubmissions.WithLabelValues("invalid").Inc()
		attachError(c, err)
		h.redirectBack(c, "Invalid access token")
		return
	}

	middleware.SetMenteeTokenCookies(
		c,
		req.Token,
		time.Now(),
		h.cfg.CookieTTLSeconds,
		h.cfg.CookieDomain,
		h.cfg.CookieSecure,
	)

	metrics.MenteeTokenSubmissions.WithLabelValues("success").Inc()
	c.Redirect(http.StatusFound, availableDatesPath)
}

// Logout handles GET /auth/mentee/logout
// Clears the cookies and redirects to the token-entry point. Advisory
// only: the token itself remains valid and may be resubmitted.
func (h *MenteeAuthHandler) Logout(c *gin.Context) {
	middleware.ClearMenteeTokenCookies(c, h.cfg.CookieDomain, h.cfg.CookieSecure)
	c.Redirect(http.StatusFound, h.cfg.TokenEntryPath)
}

func (h *MenteeAuthHandler) redirectBack(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, h.cfg.TokenEntryPath+"?error="+url.QueryEscape(msg))
}
