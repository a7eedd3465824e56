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

// MentorRepository handles mentor account data access
type MentorRepository struct {
	pool *pgxpool.Pool
}

// NewMentorRepository creates a new mentor repository
func NewMentorRepository(pool *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{
		pool: pool,
	}
}

// Create inserts a new mentor account. A duplicate email reports ErrConflict.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	start := time.Now()
	operation := "createMentor"

	query := `
		INSERT INTO mentors (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, mentor.Email, mentor.Name, mentor.PasswordHash).
		Scan(&mentor.ID, &mentor.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			recordMetrics(operation, "conflict", duration)
			return fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
		}
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// GetByEmail retrieves a mentor by email
func (r *MentorRepository) GetByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	return r.getByField(ctx, "getMentorByEmail", "email = $1", email)
}

// GetByID retrieves a mentor by id
func (r *MentorRepository) GetByID(ctx context.Context, id int64) (*models.Mentor, error) {
	return r.getByField(ctx, "getMentorByID", "id = $1", id)
}

func (r *MentorRepository) getByField(ctx context.Context, operation, whereClause string, arg interface{}) (*models.Mentor, error) {
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT id, email, name, password_hash, created_at
		FROM mentors
		WHERE %s
	`, whereClause)

	var m models.Mentor
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&m.ID, &m.Email, &m.Name, &m.PasswordHash, &m.CreatedAt,
	)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentor")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &m, nil
}
