package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

const (
	// MenteeTokenCookieName carries the raw capability token. It is
	// HttpOnly and re-validated against the database on every request;
	// there is no server-side mentee session.
	MenteeTokenCookieName = "auth_token"

	// MenteeTokenIssuedAtCookieName carries the unix time the token cookie
	// was set. The cookie lifetime is absolute: it is never refreshed, so
	// access expires a fixed interval after submission regardless of
	// activity. The companion cookie lets the server enforce that cutoff
	// itself instead of trusting the browser to drop the cookie.
	MenteeTokenIssuedAtCookieName = "auth_token_at"

	// MenteeContextKey is the key used to store the resolved mentee in context
	MenteeContextKey = "mentee"
)

var (
	ErrMenteeNotFound = errors.New("mentee not found in context")
	ErrInvalidMentee  = errors.New("invalid mentee type")
)

// MenteeTokenGuard validates the capability token cookie and binds the
// resolved mentee to the request context. It checks token validity only,
// never mentor identity: a valid token grants access to exactly the mentee
// record that holds it. On failure the request is redirected to the
// token-entry page and the guarded handler never runs.
type MenteeTokenGuard struct {
	tokenService services.MenteeTokenServiceInterface
	ttl          time.Duration
	entryPath    string
	cookieDomain string
	cookieSecure bool

	// now is injectable so cookie expiry can be tested
	now func() time.Time
}

// NewMenteeTokenGuard creates a new MenteeTokenGuard
func NewMenteeTokenGuard(tokenService services.MenteeTokenServiceInterface, ttlSeconds int, entryPath, cookieDomain string, cookieSecure bool) *MenteeTokenGuard {
	return &MenteeTokenGuard{
		tokenService: tokenService,
		ttl:          time.Duration(ttlSeconds) * time.Second,
		entryPath:    entryPath,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
}

// Middleware returns the gin handler enforcing the mentee-token policy
func (g *MenteeTokenGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		mentee, err := g.resolveMentee(c)
		if err != nil {
			metrics.PolicyDecisions.WithLabelValues("mentee_token", "denied").Inc()
			g.redirectToEntry(c, err)
			return
		}

		metrics.PolicyDecisions.WithLabelValues("mentee_token", "allowed").Inc()
		c.Set(MenteeContextKey, mentee)
		c.Next()
	}
}

// resolveMentee reads the token cookie, enforces the absolute expiry
// window, and resolves the mentee record. A missing cookie, an expired
// cookie and an unknown token are all terminal for the request.
func (g *MenteeTokenGuard) resolveMentee(c *gin.Context) (*models.Mentee, error) {
	token, err := c.Cookie(MenteeTokenCookieName)
	if err != nil || token == "" {
		return nil, apperrors.ErrMissingToken
	}

	issuedAtStr, err := c.Cookie(MenteeTokenIssuedAtCookieName)
	if err != nil {
		return nil, apperrors.ErrMissingToken
	}
	issuedAt, err := strconv.ParseInt(issuedAtStr, 10, 64)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if g.now().After(time.Unix(issuedAt, 0).Add(g.ttl)) {
		return nil, apperrors.ErrTokenExpired
	}

	mentee, err := g.tokenService.Validate(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	return mentee, nil
}

// redirectToEntry clears the stale cookies and sends the browser back to
// the token-entry page with a user-visible error.
func (g *MenteeTokenGuard) redirectToEntry(c *gin.Context, err error) {
	ClearMenteeTokenCookies(c, g.cookieDomain, g.cookieSecure)

	msg := "Please enter your access token"
	if errors.Is(err, apperrors.ErrTokenExpired) {
		msg = "Your access has expired, please enter your token again"
	} else if errors.Is(err, apperrors.ErrInvalidToken) {
		msg = "Invalid access token"
	}

	c.Redirect(http.StatusFound, g.entryPath+"?error="+url.QueryEscape(msg))
	c.Abort()
}

// GetMentee extracts the resolved mentee from context
func GetMentee(c *gin.Context) (*models.Mentee, error) {
	val, exists := c.Get(MenteeContextKey)
	if !exists {
		return nil, ErrMenteeNotFound
	}

	mentee, ok := val.(*models.Mentee)
	if !ok {
		return nil, ErrInvalidMentee
	}

	return mentee, nil
}

// SetMenteeTokenCookies sets the capability token cookie and its issuance
// timestamp companion. Both are HttpOnly with the same absolute lifetime.
func SetMenteeTokenCookies(c *gin.Context, token string, issuedAt time.Time, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		MenteeTokenCookieName,
		token,
		ttlSeconds,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
	c.SetCookie(
		MenteeTokenIssuedAtCookieName,
		strconv.FormatInt(issuedAt.Unix(), 10),
		ttlSeconds,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}

// ClearMenteeTokenCookies clears both mentee cookies. Advisory only: the
// token itself stays valid and may be resubmitted.
func ClearMenteeTokenCookies(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(MenteeTokenCookieName, "", -1, "/", domain, secure, true)
	c.SetCookie(MenteeTokenIssuedAtCookieName, "", -1, "/", domain, secure, true)
}
