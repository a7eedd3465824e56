package services

import (
	"context"
	"io"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
)

// MenteeTokenServiceInterface is the token issuer/validator: the sole
// mechanism granting mentee-side capability.
type MenteeTokenServiceInterface interface {
	// Issue generates a fresh capability token, retrying until no existing
	// mentee record holds the same value.
	Issue(ctx context.Context) (string, error)
	// Validate resolves the mentee whose stored token exactly equals the
	// candidate. Reports ErrInvalidToken when no record matches; it never
	// checks expiry.
	Validate(ctx context.Context, token string) (*models.Mentee, error)
}

// MenteeServiceInterface defines mentor-facing mentee management
type MenteeServiceInterface interface {
	RegisterMentee(ctx context.Context, mentorID int64, req *models.RegisterMenteeRequest) (*models.RegisterMenteeResponse, error)
	ListMentees(ctx context.Context, mentorID int64) (*models.MenteeListResponse, error)
	CreateNavigator(ctx context.Context, mentorID int64, req *models.CreateNavigatorRequest) (*models.Navigator, error)
}

// MentorAuthServiceInterface defines mentor account authentication
type MentorAuthServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterMentorRequest) (*models.Mentor, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.MentorSession, string, error)
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
	GetTokenManager() *jwt.TokenManager
}

// TaskServiceInterface defines task management for both trust models
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, mentee *models.Mentee, req *models.CreateTaskRequest) (*models.Task, error)
	TasksForMentee(ctx context.Context, mentee *models.Mentee) (*models.MenteeTasksResponse, error)
	ToggleStatus(ctx context.Context, task *models.Task) (*models.Task, error)
}

// ScheduleServiceInterface defines availability and meeting operations
type ScheduleServiceInterface interface {
	PublishSlot(ctx context.Context, mentorID int64, req *models.CreateSlotRequest) (*models.AppointmentAvailability, error)
	AvailableDates(ctx context.Context, mentee *models.Mentee) ([]models.AvailableDate, error)
	OpenSlotsForDay(ctx context.Context, mentee *models.Mentee, day time.Time) ([]*models.AppointmentAvailability, error)
	BookMeeting(ctx context.Context, mentee *models.Mentee, req *models.BookMeetingRequest) (*models.Meeting, error)
	ListMeetings(ctx context.Context, mentorID int64) ([]*models.Meeting, error)
}

// UploadServiceInterface defines mentee video uploads
type UploadServiceInterface interface {
	UploadVideo(ctx context.Context, mentee *models.Mentee, fileName, contentType string, body io.Reader, size int64) (*models.Upload, error)
}
