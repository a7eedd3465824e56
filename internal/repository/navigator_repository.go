package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// NavigatorRepository handles navigator data access
type NavigatorRepository struct {
	pool *pgxpool.Pool
}

// NewNavigatorRepository creates a new navigator repository
func NewNavigatorRepository(pool *pgxpool.Pool) *NavigatorRepository {
	return &NavigatorRepository{
		pool: pool,
	}
}

// Create inserts a new navigator
func (r *NavigatorRepository) Create(ctx context.Context, navigator *models.Navigator) error {
	query := `
		INSERT INTO navigators (name, mentor_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, navigator.Name, navigator.MentorID).
		Scan(&navigator.ID, &navigator.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create navigator: %w", err)
	}
	return nil
}

// GetByID retrieves a navigator by id
func (r *NavigatorRepository) GetByID(ctx context.Context, id int64) (*models.Navigator, error) {
	query := `
		SELECT id, name, mentor_id, created_at
		FROM navigators
		WHERE id = $1
	`
	var n models.Navigator
	err := r.pool.QueryRow(ctx, query, id).Scan(&n.ID, &n.Name, &n.MentorID, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFoundError("navigator")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query navigator: %w", err)
	}
	return &n, nil
}

// ListByMentor retrieves all navigators belonging to a mentor
func (r *NavigatorRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Navigator, error) {
	query := `
		SELECT id, name, mentor_id, created_at
		FROM navigators
		WHERE mentor_id = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query navigators: %w", err)
	}
	defer rows.Close()

	navigators := make([]*models.Navigator, 0)
	for rows.Next() {
		var n models.Navigator
		if err := rows.Scan(&n.ID, &n.Name, &n.MentorID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan navigator row: %w", err)
		}
		navigators = append(navigators, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating navigator rows: %w", err)
	}
	return navigators, nil
}
