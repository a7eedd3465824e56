package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlink/mentorlink-api/internal/models"
)

// UploadRepository handles video upload records
type UploadRepository struct {
	pool *pgxpool.Pool
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{
		pool: pool,
	}
}

// Create persists a new upload record
func (r *UploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO uploads (mentee_id, video_url)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, upload.MenteeID, upload.VideoURL).
		Scan(&upload.ID, &upload.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

// ListByMentee retrieves all uploads belonging to one mentee
func (r *UploadRepository) ListByMentee(ctx context.Context, menteeID int64) ([]*models.Upload, error) {
	query := `
		SELECT id, mentee_id, video_url, created_at
		FROM uploads
		WHERE mentee_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, menteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	uploads := make([]*models.Upload, 0)
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.MenteeID, &u.VideoURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		uploads = append(uploads, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upload rows: %w", err)
	}
	return uploads, nil
}
