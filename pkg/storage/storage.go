package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// VideoStore uploads mentee videos to S3-compatible object storage
type VideoStore interface {
	UploadVideo(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	GenerateKey(menteeID int64, originalFileName string) string
	ValidateVideoType(contentType string) error
}

// StorageClient represents an S3-compatible object storage client
type StorageClient struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewStorageClient creates a new object storage client using the S3 SDK
func NewStorageClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*StorageClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &StorageClient{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// UploadVideo streams a mentee video to object storage and returns its public URL
func (s *StorageClient) UploadVideo(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	start := time.Now()
	operation := "uploadVideo"

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogDBCall(operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogDBCall(operation, "success", duration,
		zap.String("key", key),
		zap.Int64("size_bytes", size),
	)

	// Format: {endpoint}/{bucket}/{key}
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucketName, key), nil
}

// GenerateKey builds a unique object key for a mentee video
func (s *StorageClient) GenerateKey(menteeID int64, originalFileName string) string {
	ext := strings.ToLower(path.Ext(originalFileName))
	if ext == "" {
		ext = ".mp4"
	}
	return fmt.Sprintf("videos/%d/%s%s", menteeID, uuid.NewString(), ext)
}

// ValidateVideoType validates the video content type
func (s *StorageClient) ValidateVideoType(contentType string) error {
	validTypes := map[string]bool{
		"video/mp4":       true,
		"video/webm":      true,
		"video/quicktime": true,
	}

	if !validTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: mp4, webm, quicktime", contentType)
	}

	return nil
}
