package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
)

const (
	// MentorSessionCookieName is the name of the session cookie
	MentorSessionCookieName = "mentor_session"

	// MentorSessionContextKey is the key used to store session in context
	MentorSessionContextKey = "mentor_session"
)

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// MentorSessionMiddleware validates the JWT session cookie and adds the
// session to context. Failures return 401 JSON, for the mentor API surface.
func MentorSessionMiddleware(tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := resolveMentorSession(c, tokenManager, cookieDomain, cookieSecure)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		c.Set(MentorSessionContextKey, session)
		c.Next()
	}
}

// resolveMentorSession reads and validates the session cookie. An invalid
// cookie is cleared as a side effect so the browser stops resending it.
func resolveMentorSession(c *gin.Context, tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) (*models.MentorSession, error) {
	cookie, err := c.Cookie(MentorSessionCookieName)
	if err != nil {
		_ = c.Error(fmt.Errorf("missing session cookie")) //nolint:errcheck
		return nil, err
	}

	claims, err := tokenManager.ValidateToken(cookie)
	if err != nil {
		_ = c.Error(fmt.Errorf("invalid session token: %w", err)) //nolint:errcheck
		clearSessionCookie(c, cookieDomain, cookieSecure)
		return nil, err
	}

	return &models.MentorSession{
		MentorID:  claims.MentorID,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Unix(),
		IssuedAt:  claims.IssuedAt.Unix(),
	}, nil
}

// GetMentorSession extracts session from context
func GetMentorSession(c *gin.Context) (*models.MentorSession, error) {
	val, exists := c.Get(MentorSessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := val.(*models.MentorSession)
	if !ok {
		return nil, ErrInvalidSession
	}

	return session, nil
}

// SetSessionCookie sets the mentor session cookie
func SetSessionCookie(c *gin.Context, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		MentorSessionCookieName,
		token,
		ttlSeconds,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}

// ClearSessionCookie clears the mentor session cookie
func ClearSessionCookie(c *gin.Context, domain string, secure bool) {
	clearSessionCookie(c, domain, secure)
}

func clearSessionCookie(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		MentorSessionCookieName,
		"",
		-1,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}
