package services

import (
	"context"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	slotDateLayout = "2006-01-02T15:04"

	// slotOverlapWindow is how close two of a mentor's slots may start.
	// A slot runs 50 minutes, so anything starting within 52 minutes of an
	// existing slot would collide or leave no gap.
	slotOverlapWindow = 52 * time.Minute
)

// ScheduleService handles availability slots and meeting bookings
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepositoryInterface

	// now is injectable so expiry-sensitive listing can be tested
	now func() time.Time
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo repository.ScheduleRepositoryInterface) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		now:          time.Now,
	}
}

// PublishSlot creates a new availability slot for the mentor. Slots that
// would overlap an existing slot of the same mentor are rejected.
func (s *ScheduleService) PublishSlot(ctx context.Context, mentorID int64, req *models.CreateSlotRequest) (*models.AppointmentAvailability, error) {
	date, err := time.Parse(slotDateLayout, req.Date)
	if err != nil {
		return nil, apperrors.InvalidInputError("date", "must be in format 2006-01-02T15:04")
	}

	if date.Before(s.now()) {
		return nil, apperrors.InvalidInputError("date", "must be in the future")
	}

	near, err := s.scheduleRepo.HasSlotNear(ctx, mentorID, date, slotOverlapWindow)
	if err != nil {
		return nil, err
	}
	if near {
		return nil, apperrors.InvalidInputError("date", "overlaps an existing slot")
	}

	slot, err := s.scheduleRepo.CreateSlot(ctx, mentorID, date)
	if err != nil {
		return nil, err
	}

	logger.Info("Availability slot published",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("mentor_id", mentorID),
		zap.Time("date", slot.AppointmentDate))

	return slot, nil
}

// AvailableDates returns the calendar days on which the mentee's mentor has
// open future slots, one entry per day, in chronological order.
func (s *ScheduleService) AvailableDates(ctx context.Context, mentee *models.Mentee) ([]models.AvailableDate, error) {
	slots, err := s.scheduleRepo.ListOpenFrom(ctx, mentee.MentorID, s.now())
	if err != nil {
		return nil, err
	}

	dates := make([]models.AvailableDate, 0, len(slots))
	seen := make(map[string]bool)
	for _, slot := range slots {
		day := slot.AppointmentDate.Format("02/01/2006")
		if seen[day] {
			continue
		}
		seen[day] = true
		dates = append(dates, models.AvailableDate{
			SlotID:  slot.ID,
			Month:   slot.AppointmentDate.Month().String(),
			Weekday: slot.AppointmentDate.Weekday().String(),
			Date:    day,
		})
	}

	return dates, nil
}

// OpenSlotsForDay returns the mentee's mentor's open slots on the given
// calendar day, excluding slots that have already started.
func (s *ScheduleService) OpenSlotsForDay(ctx context.Context, mentee *models.Mentee, day time.Time) ([]*models.AppointmentAvailability, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	now := s.now()
	if from.Before(now) {
		from = now
	}

	return s.scheduleRepo.ListOpenBetween(ctx, mentee.MentorID, from, to)
}

// BookMeeting claims a slot for the mentee. A slot belonging to a different
// mentor is reported as not found, exactly as a nonexistent slot would be.
func (s *ScheduleService) BookMeeting(ctx context.Context, mentee *models.Mentee, req *models.BookMeetingRequest) (*models.Meeting, error) {
	topic := models.MeetingTopic(req.Topic)
	if !topic.IsValid() {
		metrics.MeetingBookings.WithLabelValues("invalid_topic").Inc()
		return nil, apperrors.InvalidInputError("topic", "unknown meeting topic")
	}

	meeting, err := s.scheduleRepo.BookSlot(ctx, req.SlotID, mentee, topic, req.Description)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrNotFound):
			metrics.MeetingBookings.WithLabelValues("not_found").Inc()
		case apperrors.Is(err, apperrors.ErrSlotTaken):
			metrics.MeetingBookings.WithLabelValues("slot_taken").Inc()
		default:
			metrics.MeetingBookings.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.MeetingBookings.WithLabelValues("success").Inc()
	logger.Info("Meeting booked",
		zap.Int64("meeting_id", meeting.ID),
		zap.Int64("slot_id", req.SlotID),
		zap.Int64("mentee_id", mentee.ID))

	return meeting, nil
}

// ListMeetings returns all meetings booked against the mentor's slots
func (s *ScheduleService) ListMeetings(ctx context.Context, mentorID int64) ([]*models.Meeting, error) {
	return s.scheduleRepo.ListMeetingsByMentor(ctx, mentorID)
}
