package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// MenteeRepository handles mentee data access
type MenteeRepository struct {
	pool *pgxpool.Pool
}

// NewMenteeRepository creates a new mentee repository
func NewMenteeRepository(pool *pgxpool.Pool) *MenteeRepository {
	return &MenteeRepository{
		pool: pool,
	}
}

// Create inserts a new mentee record. The capability token must already be
// set by the caller; the unique constraint on the token column is the
// backstop for the check-then-insert race under concurrent creation, and a
// collision surfaces as ErrConflict so the caller can regenerate and retry.
func (r *MenteeRepository) Create(ctx context.Context, mentee *models.Mentee) error {
	start := time.Now()
	operation := "createMentee"

	query := `
		INSERT INTO mentees (name, stage, navigator_id, mentor_id, token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		mentee.Name, mentee.Stage, mentee.NavigatorID, mentee.MentorID, mentee.Token,
	).Scan(&mentee.ID, &mentee.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			recordMetrics(operation, "conflict", duration)
			return fmt.Errorf("token collision: %w", apperrors.ErrConflict)
		}
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create mentee: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int64("mentee_id", mentee.ID))
	return nil
}

// GetByID retrieves a mentee by primary identifier
func (r *MenteeRepository) GetByID(ctx context.Context, id int64) (*models.Mentee, error) {
	return r.getByField(ctx, "getMenteeByID", "id = $1", id)
}

// GetByToken retrieves the mentee whose stored token exactly equals the
// candidate string. No normalization, no prefix matching.
func (r *MenteeRepository) GetByToken(ctx context.Context, token string) (*models.Mentee, error) {
	return r.getByField(ctx, "getMenteeByToken", "token = $1", token)
}

func (r *MenteeRepository) getByField(ctx context.Context, operation, whereClause string, arg interface{}) (*models.Mentee, error) {
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT id, name, stage, navigator_id, mentor_id, token, created_at
		FROM mentees
		WHERE %s
	`, whereClause)

	var m models.Mentee
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&m.ID, &m.Name, &m.Stage, &m.NavigatorID, &m.MentorID, &m.Token, &m.CreatedAt,
	)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentee")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentee: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &m, nil
}

// ExistsByToken checks whether any mentee record holds the given token.
// Uniqueness is checked against the full record set, not just active ones.
func (r *MenteeRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	start := time.Now()
	operation := "menteeTokenExists"

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM mentees WHERE token = $1)`, token,
	).Scan(&exists)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return false, fmt.Errorf("failed to check token existence: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return exists, nil
}

// ListByMentor retrieves all mentees owned by a mentor
func (r *MenteeRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Mentee, error) {
	start := time.Now()
	operation := "listMenteesByMentor"

	query := `
		SELECT id, name, stage, navigator_id, mentor_id, token, created_at
		FROM mentees
		WHERE mentor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentees: %w", err)
	}
	defer rows.Close()

	mentees := make([]*models.Mentee, 0)
	for rows.Next() {
		var m models.Mentee
		if err := rows.Scan(&m.ID, &m.Name, &m.Stage, &m.NavigatorID, &m.MentorID, &m.Token, &m.CreatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan mentee row: %w", err)
		}
		mentees = append(mentees, &m)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating mentee rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return mentees, nil
}

// CountByStage returns how many of a mentor's mentees sit in each band
func (r *MenteeRepository) CountByStage(ctx context.Context, mentorID int64) (map[models.Stage]int, error) {
	start := time.Now()
	operation := "countMenteesByStage"

	query := `
		SELECT stage, COUNT(*)
		FROM mentees
		WHERE mentor_id = $1
		GROUP BY stage
	`

	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to count mentees by stage: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Stage]int)
	for rows.Next() {
		var stage models.Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		counts[stage] = count
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating stage counts: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return counts, nil
}
