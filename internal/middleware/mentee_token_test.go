package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitForTests()
}

// fakeTokenService resolves tokens from a fixed map. Validation has no
// expiry, mirroring the real service: a token is valid indefinitely.
type fakeTokenService struct {
	mentees map[string]*models.Mentee
}

func (f *fakeTokenService) Issue(ctx context.Context) (string, error) {
	return "fresh-token1", nil
}

func (f *fakeTokenService) Validate(ctx context.Context, token string) (*models.Mentee, error) {
	mentee, ok := f.mentees[token]
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return mentee, nil
}

func newTestGuard(mentees map[string]*models.Mentee) *MenteeTokenGuard {
	return NewMenteeTokenGuard(&fakeTokenService{mentees: mentees}, 3600, "/auth/mentee", "", false)
}

func addTokenCookies(req *http.Request, token string, issuedAt time.Time) {
	req.AddCookie(&http.Cookie{Name: MenteeTokenCookieName, Value: token})
	req.AddCookie(&http.Cookie{Name: MenteeTokenIssuedAtCookieName, Value: strconv.FormatInt(issuedAt.Unix(), 10)})
}

func TestMenteeTokenGuard_ValidToken(t *testing.T) {
	guard := newTestGuard(map[string]*models.Mentee{
		"aB3xK9dQw2c": {ID: 7, Name: "Alex", MentorID: 1, Token: "aB3xK9dQw2c"},
	})

	var bound *models.Mentee
	router := gin.New()
	router.GET("/mentee/tasks", guard.Middleware(), func(c *gin.Context) {
		mentee, err := GetMentee(c)
		require.NoError(t, err)
		bound = mentee
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentee/tasks", nil)
	addTokenCookies(req, "aB3xK9dQw2c", time.Now())

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, bound)
	assert.Equal(t, int64(7), bound.ID)
}

func TestMenteeTokenGuard_MissingCookieRedirects(t *testing.T) {
	guard := newTestGuard(map[string]*models.Mentee{})

	handlerCalled := false
	router := gin.New()
	router.GET("/mentee/tasks", guard.Middleware(), func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentee/tasks", nil)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not run without a token cookie")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/mentee")
}

func TestMenteeTokenGuard_UnknownTokenRedirects(t *testing.T) {
	guard := newTestGuard(map[string]*models.Mentee{
		"aB3xK9dQw2c": {ID: 7, MentorID: 1},
	})

	handlerCalled := false
	router := gin.New()
	router.GET("/mentee/tasks", guard.Middleware(), func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentee/tasks", nil)
	addTokenCookies(req, "wrong-token", time.Now())

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/mentee")
}

func TestMenteeTokenGuard_IgnoresMentorIdentity(t *testing.T) {
	// The token policy checks token validity only. A mentee of mentor 2
	// passes the guard even if the surrounding page context belongs to
	// mentor 1; ownership is enforced by different policies.
	guard := newTestGuard(map[string]*models.Mentee{
		"other-mentor": {ID: 8, MentorID: 2, Token: "other-mentor"},
	})

	router := gin.New()
	router.GET("/mentee/tasks", guard.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentee/tasks", nil)
	addTokenCookies(req, "other-mentor", time.Now())

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMenteeTokenGuard_AbsoluteExpiry(t *testing.T) {
	issuedAt := time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC)
	guard := newTestGuard(map[string]*models.Mentee{
		"aB3xK9dQw2c": {ID: 7, MentorID: 1, Token: "aB3xK9dQw2c"},
	})

	router := gin.New()
	router.GET("/mentee/tasks", guard.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// One second inside the window: allowed
	guard.now = func() time.Time { return issuedAt.Add(3599 * time.Second) }
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentee/tasks", nil)
	addTokenCookies(req, "aB3xK9dQw2c", issuedAt)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// One second past the window: rejected even though the token itself
	// still validates. Expiry lives in the cookie layer, not the token.
	guard.now = func() time.Time { return issuedAt.Add(3601 * time.Second) }
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/mentee/tasks", nil)
	addTokenCookies(req, "aB3xK9dQw2c", issuedAt)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/mentee")
}

func TestSetMenteeTokenCookies(t *testing.T) {
	router := gin.New()
	issuedAt := time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC)
	router.POST("/auth/mentee", func(c *gin.Context) {
		SetMenteeTokenCookies(c, "aB3xK9dQw2c", issuedAt, 3600, "", false)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/mentee", nil)
	router.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	tokenCookie := byName[MenteeTokenCookieName]
	require.NotNil(t, tokenCookie)
	assert.Equal(t, "aB3xK9dQw2c", tokenCookie.Value)
	assert.True(t, tokenCookie.HttpOnly)
	assert.Equal(t, 3600, tokenCookie.MaxAge)

	atCookie := byName[MenteeTokenIssuedAtCookieName]
	require.NotNil(t, atCookie)
	assert.Equal(t, strconv.FormatInt(issuedAt.Unix(), 10), atCookie.Value)
	assert.True(t, atCookie.HttpOnly)
}
