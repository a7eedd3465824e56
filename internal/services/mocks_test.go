package services_test

import (
	"context"
	"io"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockMenteeRepository is a mock implementation of MenteeRepositoryInterface
type MockMenteeRepository struct {
	mock.Mock
}

func (m *MockMenteeRepository) Create(ctx context.Context, mentee *models.Mentee) error {
	args := m.Called(ctx, mentee)
	return args.Error(0)
}

func (m *MockMenteeRepository) GetByID(ctx context.Context, id int64) (*models.Mentee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeRepository) GetByToken(ctx context.Context, token string) (*models.Mentee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockMenteeRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Mentee, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mentee), args.Error(1)
}

func (m *MockMenteeRepository) CountByStage(ctx context.Context, mentorID int64) (map[models.Stage]int, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Stage]int), args.Error(1)
}

// MockNavigatorRepository is a mock implementation of NavigatorRepositoryInterface
type MockNavigatorRepository struct {
	mock.Mock
}

func (m *MockNavigatorRepository) Create(ctx context.Context, navigator *models.Navigator) error {
	args := m.Called(ctx, navigator)
	return args.Error(0)
}

func (m *MockNavigatorRepository) GetByID(ctx context.Context, id int64) (*models.Navigator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Navigator), args.Error(1)
}

func (m *MockNavigatorRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Navigator, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Navigator), args.Error(1)
}

// MockTaskRepository is a mock implementation of TaskRepositoryInterface
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByMentee(ctx context.Context, menteeID int64) ([]*models.Task, error) {
	args := m.Called(ctx, menteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) SetDone(ctx context.Context, id int64, done bool) error {
	args := m.Called(ctx, id, done)
	return args.Error(0)
}

// MockScheduleRepository is a mock implementation of ScheduleRepositoryInterface
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) CreateSlot(ctx context.Context, mentorID int64, date time.Time) (*models.AppointmentAvailability, error) {
	args := m.Called(ctx, mentorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppointmentAvailability), args.Error(1)
}

func (m *MockScheduleRepository) HasSlotNear(ctx context.Context, mentorID int64, date time.Time, within time.Duration) (bool, error) {
	args := m.Called(ctx, mentorID, date, within)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepository) ListOpenFrom(ctx context.Context, mentorID int64, from time.Time) ([]*models.AppointmentAvailability, error) {
	args := m.Called(ctx, mentorID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AppointmentAvailability), args.Error(1)
}

func (m *MockScheduleRepository) ListOpenBetween(ctx context.Context, mentorID int64, from, to time.Time) ([]*models.AppointmentAvailability, error) {
	args := m.Called(ctx, mentorID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AppointmentAvailability), args.Error(1)
}

func (m *MockScheduleRepository) BookSlot(ctx context.Context, slotID int64, mentee *models.Mentee, topic models.MeetingTopic, description string) (*models.Meeting, error) {
	args := m.Called(ctx, slotID, mentee, topic, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockScheduleRepository) ListMeetingsByMentor(ctx context.Context, mentorID int64) ([]*models.Meeting, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

// MockUploadRepository is a mock implementation of UploadRepositoryInterface
type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockUploadRepository) ListByMentee(ctx context.Context, menteeID int64) ([]*models.Upload, error) {
	args := m.Called(ctx, menteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Upload), args.Error(1)
}

// MockMentorRepository is a mock implementation of MentorRepositoryInterface
type MockMentorRepository struct {
	mock.Mock
}

func (m *MockMentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	args := m.Called(ctx, mentor)
	return args.Error(0)
}

func (m *MockMentorRepository) GetByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetByID(ctx context.Context, id int64) (*models.Mentor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

// MockVideoStore is a mock implementation of storage.VideoStore
type MockVideoStore struct {
	mock.Mock
}

func (m *MockVideoStore) UploadVideo(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *MockVideoStore) GenerateKey(menteeID int64, originalFileName string) string {
	args := m.Called(menteeID, originalFileName)
	return args.String(0)
}

func (m *MockVideoStore) ValidateVideoType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

// MockStageSummaryCache is a mock implementation of cache.StageSummaryCacheInterface
type MockStageSummaryCache struct {
	mock.Mock
}

func (m *MockStageSummaryCache) Get(mentorID int64) (map[models.Stage]int, bool) {
	args := m.Called(mentorID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(map[models.Stage]int), args.Bool(1)
}

func (m *MockStageSummaryCache) Set(mentorID int64, counts map[models.Stage]int) {
	m.Called(mentorID, counts)
}

func (m *MockStageSummaryCache) Invalidate(mentorID int64) {
	m.Called(mentorID)
}
