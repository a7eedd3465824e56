package repository

import (
	"context"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// MenteeRepositoryInterface defines the persistence contract the
// authorization core depends on: point lookup by unique token (byte-exact
// equality), point lookup by id, existence check by token (for the issuance
// retry loop), and filtered listing by owning mentor.
type MenteeRepositoryInterface interface {
	Create(ctx context.Context, mentee *models.Mentee) error
	GetByID(ctx context.Context, id int64) (*models.Mentee, error)
	GetByToken(ctx context.Context, token string) (*models.Mentee, error)
	ExistsByToken(ctx context.Context, token string) (bool, error)
	ListByMentor(ctx context.Context, mentorID int64) ([]*models.Mentee, error)
	CountByStage(ctx context.Context, mentorID int64) (map[models.Stage]int, error)
}

// NavigatorRepositoryInterface handles navigator data access
type NavigatorRepositoryInterface interface {
	Create(ctx context.Context, navigator *models.Navigator) error
	GetByID(ctx context.Context, id int64) (*models.Navigator, error)
	ListByMentor(ctx context.Context, mentorID int64) ([]*models.Navigator, error)
}

// TaskRepositoryInterface handles task data access. GetByID resolves the
// owning mentor of the task's mentee in the same query so policies can do
// the two-hop ownership check without a second round trip.
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByMentee(ctx context.Context, menteeID int64) ([]*models.Task, error)
	SetDone(ctx context.Context, id int64, done bool) error
}

// ScheduleRepositoryInterface handles availability slots and meetings
type ScheduleRepositoryInterface interface {
	CreateSlot(ctx context.Context, mentorID int64, date time.Time) (*models.AppointmentAvailability, error)
	HasSlotNear(ctx context.Context, mentorID int64, date time.Time, within time.Duration) (bool, error)
	ListOpenFrom(ctx context.Context, mentorID int64, from time.Time) ([]*models.AppointmentAvailability, error)
	ListOpenBetween(ctx context.Context, mentorID int64, from, to time.Time) ([]*models.AppointmentAvailability, error)
	// BookSlot claims a slot and creates the meeting in a single
	// transaction; two concurrent bookings cannot both claim the same slot.
	BookSlot(ctx context.Context, slotID int64, mentee *models.Mentee, topic models.MeetingTopic, description string) (*models.Meeting, error)
	ListMeetingsByMentor(ctx context.Context, mentorID int64) ([]*models.Meeting, error)
}

// UploadRepositoryInterface handles video upload records
type UploadRepositoryInterface interface {
	Create(ctx context.Context, upload *models.Upload) error
	ListByMentee(ctx context.Context, menteeID int64) ([]*models.Upload, error)
}

// MentorRepositoryInterface handles mentor account data access
type MentorRepositoryInterface interface {
	Create(ctx context.Context, mentor *models.Mentor) error
	GetByEmail(ctx context.Context, email string) (*models.Mentor, error)
	GetByID(ctx context.Context, id int64) (*models.Mentor, error)
}
