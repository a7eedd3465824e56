package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// ScheduleRepository handles availability slots and meetings
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{
		pool: pool,
	}
}

// CreateSlot publishes a new availability slot for a mentor
func (r *ScheduleRepository) CreateSlot(ctx context.Context, mentorID int64, date time.Time) (*models.AppointmentAvailability, error) {
	start := time.Now()
	operation := "createSlot"

	slot := &models.AppointmentAvailability{
		MentorID:        mentorID,
		AppointmentDate: date,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO appointment_availabilities (mentor_id, appointment_date) VALUES ($1, $2) RETURNING id`,
		mentorID, date,
	).Scan(&slot.ID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return slot, nil
}

// HasSlotNear reports whether the mentor already has a slot within the given
// window around date. Used to reject overlapping slots at publication time.
func (r *ScheduleRepository) HasSlotNear(ctx context.Context, mentorID int64, date time.Time, within time.Duration) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM appointment_availabilities
			WHERE mentor_id = $1
			  AND appointment_date >= $2
			  AND appointment_date <= $3
		)`,
		mentorID, date.Add(-within), date.Add(within),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slot overlap: %w", err)
	}
	return exists, nil
}

// ListOpenFrom retrieves a mentor's unscheduled future slots from a point in time
func (r *ScheduleRepository) ListOpenFrom(ctx context.Context, mentorID int64, from time.Time) ([]*models.AppointmentAvailability, error) {
	return r.listOpen(ctx, mentorID, from, time.Time{})
}

// ListOpenBetween retrieves a mentor's unscheduled slots within [from, to)
func (r *ScheduleRepository) ListOpenBetween(ctx context.Context, mentorID int64, from, to time.Time) ([]*models.AppointmentAvailability, error) {
	return r.listOpen(ctx, mentorID, from, to)
}

func (r *ScheduleRepository) listOpen(ctx context.Context, mentorID int64, from, to time.Time) ([]*models.AppointmentAvailability, error) {
	start := time.Now()
	operation := "listOpenSlots"

	query := `
		SELECT id, mentor_id, appointment_date, scheduled
		FROM appointment_availabilities
		WHERE mentor_id = $1 AND scheduled = FALSE AND appointment_date >= $2
	`
	args := []interface{}{mentorID, from}
	if !to.IsZero() {
		query += ` AND appointment_date < $3`
		args = append(args, to)
	}
	query += ` ORDER BY appointment_date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*models.AppointmentAvailability, 0)
	for rows.Next() {
		var s models.AppointmentAvailability
		if err := rows.Scan(&s.ID, &s.MentorID, &s.AppointmentDate, &s.Scheduled); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan slot row: %w", err)
		}
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating slot rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return slots, nil
}

// BookSlot claims an availability slot for a mentee and records the meeting.
// The row lock taken by SELECT ... FOR UPDATE makes the read-check-then-write
// atomic: of two concurrent bookings, exactly one wins and the other sees
// ErrSlotTaken. A slot owned by a different mentor than the mentee's reports
// ErrNotFound, the same as a missing slot.
func (r *ScheduleRepository) BookSlot(ctx context.Context, slotID int64, mentee *models.Mentee, topic models.MeetingTopic, description string) (*models.Meeting, error) {
	start := time.Now()
	operation := "bookSlot"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // no-op after commit
	}()

	var slot models.AppointmentAvailability
	err = tx.QueryRow(ctx,
		`SELECT id, mentor_id, appointment_date, scheduled
		 FROM appointment_availabilities
		 WHERE id = $1
		 FOR UPDATE`,
		slotID,
	).Scan(&slot.ID, &slot.MentorID, &slot.AppointmentDate, &slot.Scheduled)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", metrics.MeasureDuration(start))
		return nil, apperrors.NotFoundError("slot")
	}
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to lock slot: %w", err)
	}

	if slot.MentorID != mentee.MentorID {
		recordMetrics(operation, "not_found", metrics.MeasureDuration(start))
		return nil, apperrors.NotFoundError("slot")
	}
	if slot.Scheduled {
		recordMetrics(operation, "conflict", metrics.MeasureDuration(start))
		return nil, apperrors.ErrSlotTaken
	}

	meeting := &models.Meeting{
		AvailabilityID: slot.ID,
		MenteeID:       mentee.ID,
		Topic:          topic,
		Description:    description,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO meetings (availability_id, mentee_id, topic, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		meeting.AvailabilityID, meeting.MenteeID, meeting.Topic, meeting.Description,
	).Scan(&meeting.ID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE appointment_availabilities SET scheduled = TRUE WHERE id = $1`, slot.ID,
	); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to mark slot scheduled: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration,
		zap.Int64("slot_id", slot.ID),
		zap.Int64("mentee_id", mentee.ID))
	return meeting, nil
}

// ListMeetingsByMentor retrieves all meetings booked against a mentor's slots
func (r *ScheduleRepository) ListMeetingsByMentor(ctx context.Context, mentorID int64) ([]*models.Meeting, error) {
	start := time.Now()
	operation := "listMeetingsByMentor"

	query := `
		SELECT mt.id, mt.availability_id, mt.mentee_id, mt.topic, mt.description
		FROM meetings mt
		JOIN appointment_availabilities a ON a.id = mt.availability_id
		WHERE a.mentor_id = $1
		ORDER BY a.appointment_date
	`

	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	meetings := make([]*models.Meeting, 0)
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.AvailabilityID, &m.MenteeID, &m.Topic, &m.Description); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan meeting row: %w", err)
		}
		meetings = append(meetings, &m)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating meeting rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return meetings, nil
}
