package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_PublishSlot_Success(t *testing.T) {
	scheduleRepo := new(MockScheduleRepository)
	date := time.Date(2027, 10, 14, 15, 0, 0, 0, time.UTC)
	scheduleRepo.On("HasSlotNear", mock.Anything, int64(1), date, 52*time.Minute).Return(false, nil)
	scheduleRepo.On("CreateSlot", mock.Anything, int64(1), date).Return(&models.AppointmentAvailability{
		ID: 3, MentorID: 1, AppointmentDate: date,
	}, nil)

	svc := services.NewScheduleService(scheduleRepo)

	slot, err := svc.PublishSlot(context.Background(), 1, &models.CreateSlotRequest{Date: "2027-10-14T15:00"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), slot.ID)
}

func TestScheduleService_PublishSlot_BadDateFormat(t *testing.T) {
	svc := services.NewScheduleService(new(MockScheduleRepository))

	_, err := svc.PublishSlot(context.Background(), 1, &models.CreateSlotRequest{Date: "14/10/2027 15:00"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestScheduleService_PublishSlot_RejectsOverlap(t *testing.T) {
	scheduleRepo := new(MockScheduleRepository)
	date := time.Date(2027, 10, 14, 15, 0, 0, 0, time.UTC)
	scheduleRepo.On("HasSlotNear", mock.Anything, int64(1), date, 52*time.Minute).Return(true, nil)

	svc := services.NewScheduleService(scheduleRepo)

	_, err := svc.PublishSlot(context.Background(), 1, &models.CreateSlotRequest{Date: "2027-10-14T15:00"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	scheduleRepo.AssertNotCalled(t, "CreateSlot")
}

func TestScheduleService_PublishSlot_RejectsPastDate(t *testing.T) {
	svc := services.NewScheduleService(new(MockScheduleRepository))

	_, err := svc.PublishSlot(context.Background(), 1, &models.CreateSlotRequest{Date: "2020-01-01T10:00"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestScheduleService_AvailableDates_DeduplicatesPerDay(t *testing.T) {
	scheduleRepo := new(MockScheduleRepository)
	mentee := &models.Mentee{ID: 1, MentorID: 2}

	day1a := time.Date(2027, 10, 14, 9, 0, 0, 0, time.UTC)
	day1b := time.Date(2027, 10, 14, 15, 0, 0, 0, time.UTC)
	day2 := time.Date(2027, 10, 15, 9, 0, 0, 0, time.UTC)

	scheduleRepo.On("ListOpenFrom", mock.Anything, int64(2), mock.AnythingOfType("time.Time")).Return([]*models.AppointmentAvailability{
		{ID: 1, MentorID: 2, AppointmentDate: day1a},
		{ID: 2, MentorID: 2, AppointmentDate: day1b},
		{ID: 3, MentorID: 2, AppointmentDate: day2},
	}, nil)

	svc := services.NewScheduleService(scheduleRepo)

	dates, err := svc.AvailableDates(context.Background(), mentee)

	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "14/10/2027", dates[0].Date)
	assert.Equal(t, "October", dates[0].Month)
	assert.Equal(t, "Thursday", dates[0].Weekday)
	assert.Equal(t, "15/10/2027", dates[1].Date)
}

func TestScheduleService_BookMeeting_UnknownTopic(t *testing.T) {
	scheduleRepo := new(MockScheduleRepository)
	svc := services.NewScheduleService(scheduleRepo)

	_, err := svc.BookMeeting(context.Background(), &models.Mentee{ID: 1, MentorID: 2}, &models.BookMeetingRequest{
		SlotID: 5,
		Topic:  "XYZ",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	scheduleRepo.AssertNotCalled(t, "BookSlot")
}

func TestScheduleService_BookMeeting_ForeignSlotIsNotFound(t *testing.T) {
	scheduleRepo := new(MockScheduleRepository)
	mentee := &models.Mentee{ID: 1, MentorID: 2}
	// Repository collapses "slot belongs to another mentor" into not found
	scheduleRepo.On("BookSlot", mock.Anything, int64(5), mentee, models.MeetingTopic("TDD"), "intro").Return(nil, apperrors.NotFoundError("slot"))

	svc := services.NewScheduleService(scheduleRepo)

	_, err := svc.BookMeeting(context.Background(), mentee, &models.BookMeetingRequest{
		SlotID:      5,
		Topic:       "TDD",
		Description: "intro",
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScheduleService_BookMeeting_SlotTaken(t *testing.T) {
	scheduleRepo := new(MockScheduleRepository)
	mentee := &models.Mentee{ID: 1, MentorID: 2}
	scheduleRepo.On("BookSlot", mock.Anything, int64(5), mentee, models.MeetingTopic("GIT"), "rebasing").Return(nil, apperrors.ErrSlotTaken)

	svc := services.NewScheduleService(scheduleRepo)

	_, err := svc.BookMeeting(context.Background(), mentee, &models.BookMeetingRequest{
		SlotID:      5,
		Topic:       "GIT",
		Description: "rebasing",
	})

	assert.ErrorIs(t, err, apperrors.ErrSlotTaken)
}
