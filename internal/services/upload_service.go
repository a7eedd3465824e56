package services

import (
	"context"
	"io"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
	"go.uber.org/zap"
)

// maxVideoSize caps mentee video uploads at 200 MB
const maxVideoSize = 200 << 20

// UploadService handles mentee video uploads
type UploadService struct {
	uploadRepo repository.UploadRepositoryInterface
	store      storage.VideoStore
}

// NewUploadService creates a new UploadService
func NewUploadService(uploadRepo repository.UploadRepositoryInterface, store storage.VideoStore) *UploadService {
	return &UploadService{
		uploadRepo: uploadRepo,
		store:      store,
	}
}

// UploadVideo stores the video in object storage and records its URL
// against the mentee.
func (s *UploadService) UploadVideo(ctx context.Context, mentee *models.Mentee, fileName, contentType string, body io.Reader, size int64) (*models.Upload, error) {
	// The store is nil when object storage credentials are absent
	if s.store == nil {
		metrics.VideoUploads.WithLabelValues("storage_disabled").Inc()
		return nil, apperrors.InternalError("video storage not configured")
	}

	if size <= 0 || size > maxVideoSize {
		metrics.VideoUploads.WithLabelValues("invalid_size").Inc()
		return nil, apperrors.InvalidInputError("video", "size must be between 1 byte and 200MB")
	}

	if err := s.store.ValidateVideoType(contentType); err != nil {
		metrics.VideoUploads.WithLabelValues("invalid_type").Inc()
		return nil, apperrors.InvalidInputError("video", err.Error())
	}

	key := s.store.GenerateKey(mentee.ID, fileName)
	url, err := s.store.UploadVideo(ctx, key, contentType, body, size)
	if err != nil {
		metrics.VideoUploads.WithLabelValues("storage_error").Inc()
		logger.Error("Video upload to storage failed",
			zap.Int64("mentee_id", mentee.ID),
			zap.String("key", key),
			zap.Error(err))
		return nil, apperrors.InternalError("failed to store video")
	}

	upload := &models.Upload{
		MenteeID: mentee.ID,
		VideoURL: url,
	}
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		metrics.VideoUploads.WithLabelValues("db_error").Inc()
		return nil, err
	}

	metrics.VideoUploads.WithLabelValues("success").Inc()
	logger.Info("Video uploaded",
		zap.Int64("upload_id", upload.ID),
		zap.Int64("mentee_id", mentee.ID),
		zap.String("url", url))

	return upload, nil
}
