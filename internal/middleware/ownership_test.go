package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMenteeRepo serves mentees from a fixed map keyed by id.
type fakeMenteeRepo struct {
	mentees map[int64]*models.Mentee
}

func (f *fakeMenteeRepo) Create(ctx context.Context, mentee *models.Mentee) error { return nil }

func (f *fakeMenteeRepo) GetByID(ctx context.Context, id int64) (*models.Mentee, error) {
	mentee, ok := f.mentees[id]
	if !ok {
		return nil, apperrors.NotFoundError("mentee")
	}
	return mentee, nil
}

func (f *fakeMenteeRepo) GetByToken(ctx context.Context, token string) (*models.Mentee, error) {
	for _, mentee := range f.mentees {
		if mentee.Token == token {
			return mentee, nil
		}
	}
	return nil, apperrors.NotFoundError("mentee")
}

func (f *fakeMenteeRepo) ExistsByToken(ctx context.Context, token string) (bool, error) {
	_, err := f.GetByToken(ctx, token)
	return err == nil, nil
}

func (f *fakeMenteeRepo) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Mentee, error) {
	return nil, nil
}

func (f *fakeMenteeRepo) CountByStage(ctx context.Context, mentorID int64) (map[models.Stage]int, error) {
	return nil, nil
}

// fakeTaskRepo serves tasks from a fixed map keyed by id.
type fakeTaskRepo struct {
	tasks map[int64]*models.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error { return nil }

func (f *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, apperrors.NotFoundError("task")
	}
	return task, nil
}

func (f *fakeTaskRepo) ListByMentee(ctx context.Context, menteeID int64) ([]*models.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) SetDone(ctx context.Context, id int64, done bool) error { return nil }

func testTokenManager() *jwt.TokenManager {
	return jwt.NewTokenManager("test-secret", "mentorlink-test", 1)
}

func sessionCookieFor(t *testing.T, tm *jwt.TokenManager, mentorID int64) *http.Cookie {
	t.Helper()
	token, err := tm.GenerateToken(mentorID, "mentor@example.com", "Dana")
	require.NoError(t, err)
	return &http.Cookie{Name: MentorSessionCookieName, Value: token}
}

func ownershipRouter(tm *jwt.TokenManager, menteeRepo *fakeMenteeRepo) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(MentorSessionMiddleware(tm, "", false))
	group.GET("/mentees/:id/tasks", MentorOwnsMentee(menteeRepo), func(c *gin.Context) {
		mentee, _ := GetMentee(c)
		c.JSON(http.StatusOK, gin.H{"mentee_id": mentee.ID})
	})
	return router
}

func TestMentorOwnsMentee_OwnerAllowed(t *testing.T) {
	tm := testTokenManager()
	router := ownershipRouter(tm, &fakeMenteeRepo{mentees: map[int64]*models.Mentee{
		7: {ID: 7, MentorID: 1},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentees/7/tasks", nil)
	req.AddCookie(sessionCookieFor(t, tm, 1))

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMentorOwnsMentee_ForeignAndMissingIndistinguishable(t *testing.T) {
	tm := testTokenManager()
	router := ownershipRouter(tm, &fakeMenteeRepo{mentees: map[int64]*models.Mentee{
		7: {ID: 7, MentorID: 1}, // owned by mentor 1
	}})

	// Mentor 2 probing mentor 1's mentee
	foreign := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentees/7/tasks", nil)
	req.AddCookie(sessionCookieFor(t, tm, 2))
	router.ServeHTTP(foreign, req)

	// Mentor 2 probing an id that does not exist at all
	missing := httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/mentees/999/tasks", nil)
	req.AddCookie(sessionCookieFor(t, tm, 2))
	router.ServeHTTP(missing, req)

	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	// Byte-identical responses: the two cases must not be probeable apart
	assert.Equal(t, missing.Body.String(), foreign.Body.String())
}

func TestMentorOwnsMentee_NoSession(t *testing.T) {
	tm := testTokenManager()
	router := ownershipRouter(tm, &fakeMenteeRepo{mentees: map[int64]*models.Mentee{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/mentees/7/tasks", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMentorOwnsTask_TwoHopCheck(t *testing.T) {
	tm := testTokenManager()
	taskRepo := &fakeTaskRepo{tasks: map[int64]*models.Task{
		10: {ID: 10, MenteeID: 7, MenteeMentorID: 1},
	}}

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(MentorSessionMiddleware(tm, "", false))
	group.GET("/tasks/:id", MentorOwnsTask(taskRepo), func(c *gin.Context) {
		task, _ := GetTask(c)
		c.JSON(http.StatusOK, gin.H{"task_id": task.ID})
	})

	// Owning mentor passes
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/tasks/10", nil)
	req.AddCookie(sessionCookieFor(t, tm, 1))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another mentor gets not found, same as a missing task
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/tasks/10", nil)
	req.AddCookie(sessionCookieFor(t, tm, 2))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func taskStatusRouter(tm *jwt.TokenManager, guard *TaskStatusGuard) *gin.Engine {
	router := gin.New()
	router.POST("/tasks/:id/status", guard.Middleware(), func(c *gin.Context) {
		task, _ := GetTask(c)
		c.JSON(http.StatusOK, gin.H{"task_id": task.ID})
	})
	return router
}

func TestTaskStatusGuard_ChecksAreIndependent(t *testing.T) {
	tm := testTokenManager()
	// Mentee 8 belongs to mentor 2; the token cookie will carry its token.
	menteeGuard := newTestGuard(map[string]*models.Mentee{
		"mentor2-mentee": {ID: 8, MentorID: 2, Token: "mentor2-mentee"},
	})
	// Task 10 belongs to mentee 7 of mentor 1.
	taskRepo := &fakeTaskRepo{tasks: map[int64]*models.Task{
		10: {ID: 10, MenteeID: 7, MenteeMentorID: 1},
	}}
	guard := NewTaskStatusGuard(tm, menteeGuard, taskRepo, "/login", "", false)
	router := taskStatusRouter(tm, guard)

	// Mentor 1's session, a valid token for mentor 2's mentee, and mentor
	// 1's task: allowed. The token check proves only that the caller holds
	// some valid capability; it is never matched to the task's mentee.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks/10/status", nil)
	req.AddCookie(sessionCookieFor(t, tm, 1))
	addTokenCookies(req, "mentor2-mentee", time.Now())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTaskStatusGuard_MissingSessionRedirectsToLogin(t *testing.T) {
	tm := testTokenManager()
	menteeGuard := newTestGuard(map[string]*models.Mentee{
		"aB3xK9dQw2c": {ID: 7, MentorID: 1, Token: "aB3xK9dQw2c"},
	})
	guard := NewTaskStatusGuard(tm, menteeGuard, &fakeTaskRepo{}, "/login", "", false)
	router := taskStatusRouter(tm, guard)

	// A valid mentee token does not substitute for the session check
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks/10/status", nil)
	addTokenCookies(req, "aB3xK9dQw2c", time.Now())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestTaskStatusGuard_MissingTokenRedirectsToEntry(t *testing.T) {
	tm := testTokenManager()
	menteeGuard := newTestGuard(map[string]*models.Mentee{})
	guard := NewTaskStatusGuard(tm, menteeGuard, &fakeTaskRepo{}, "/login", "", false)
	router := taskStatusRouter(tm, guard)

	// A valid session does not substitute for the token check
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks/10/status", nil)
	req.AddCookie(sessionCookieFor(t, tm, 1))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/mentee")
}

func TestTaskStatusGuard_ForeignTaskNotFound(t *testing.T) {
	tm := testTokenManager()
	menteeGuard := newTestGuard(map[string]*models.Mentee{
		"aB3xK9dQw2c": {ID: 7, MentorID: 1, Token: "aB3xK9dQw2c"},
	})
	taskRepo := &fakeTaskRepo{tasks: map[int64]*models.Task{
		10: {ID: 10, MenteeID: 9, MenteeMentorID: 3},
	}}
	guard := NewTaskStatusGuard(tm, menteeGuard, taskRepo, "/login", "", false)
	router := taskStatusRouter(tm, guard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks/10/status", nil)
	req.AddCookie(sessionCookieFor(t, tm, 1))
	addTokenCookies(req, "aB3xK9dQw2c", time.Now())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
