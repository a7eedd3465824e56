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

// TaskRepository handles task data access
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		pool: pool,
	}
}

// Create inserts a new task for a mentee
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	start := time.Now()
	operation := "createTask"

	query := `
		INSERT INTO tasks (mentee_id, task)
		VALUES ($1, $2)
		RETURNING id, done, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, task.MenteeID, task.Task).
		Scan(&task.ID, &task.Done, &task.CreatedAt, &task.UpdatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// GetByID retrieves a task together with the owning mentor of its mentee.
// The join gives policies the two-hop ownership chain in one lookup.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	start := time.Now()
	operation := "getTaskByID"

	query := `
		SELECT t.id, t.mentee_id, t.task, t.done, t.created_at, t.updated_at, m.mentor_id
		FROM tasks t
		JOIN mentees m ON m.id = t.mentee_id
		WHERE t.id = $1
	`

	var t models.Task
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.MenteeID, &t.Task, &t.Done, &t.CreatedAt, &t.UpdatedAt, &t.MenteeMentorID,
	)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("task")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query task: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &t, nil
}

// ListByMentee retrieves all tasks belonging to one mentee
func (r *TaskRepository) ListByMentee(ctx context.Context, menteeID int64) ([]*models.Task, error) {
	start := time.Now()
	operation := "listTasksByMentee"

	query := `
		SELECT id, mentee_id, task, done, created_at, updated_at
		FROM tasks
		WHERE mentee_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, menteeID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.MenteeID, &t.Task, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return tasks, nil
}

// SetDone updates a task's completion flag
func (r *TaskRepository) SetDone(ctx context.Context, id int64, done bool) error {
	start := time.Now()
	operation := "setTaskDone"

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET done = $2, updated_at = now() WHERE id = $1`, id, done)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("task")
	}

	recordMetrics(operation, "success", duration)
	return nil
}
