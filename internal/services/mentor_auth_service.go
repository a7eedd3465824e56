package services

import (
	"context"
	"errors"
	"time"

	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// MentorAuthService handles mentor account registration and login
type MentorAuthService struct {
	mentorRepo   repository.MentorRepositoryInterface
	config       *config.Config
	tokenManager *jwt.TokenManager
}

// NewMentorAuthService creates a new MentorAuthService
func NewMentorAuthService(mentorRepo repository.MentorRepositoryInterface, cfg *config.Config) *MentorAuthService {
	return &MentorAuthService{
		mentorRepo: mentorRepo,
		config:     cfg,
		tokenManager: jwt.NewTokenManager(
			cfg.MentorSession.JWTSecret,
			cfg.MentorSession.JWTIssuer,
			cfg.MentorSession.SessionTTLHours,
		),
	}
}

// Register creates a new mentor account with a bcrypt password hash
func (s *MentorAuthService) Register(ctx context.Context, req *models.RegisterMentorRequest) (*models.Mentor, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError("failed to hash password")
	}

	mentor := &models.Mentor{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	if err := s.mentorRepo.Create(ctx, mentor); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Info("Mentor account created",
		zap.Int64("mentor_id", mentor.ID),
		zap.String("email", mentor.Email))

	return mentor, nil
}

// Login verifies credentials and returns a session plus a signed JWT.
// Unknown email and wrong password are reported identically.
func (s *MentorAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.MentorSession, string, error) {
	mentor, err := s.mentorRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.MentorLogins.WithLabelValues("unknown_email").Inc()
			return nil, "", ErrInvalidCredentials
		}
		metrics.MentorLogins.WithLabelValues("error").Inc()
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(mentor.PasswordHash), []byte(req.Password)); err != nil {
		metrics.MentorLogins.WithLabelValues("wrong_password").Inc()
		logger.Warn("Failed login attempt", zap.String("email", req.Email))
		return nil, "", ErrInvalidCredentials
	}

	signed, err := s.tokenManager.GenerateToken(mentor.ID, mentor.Email, mentor.Name)
	if err != nil {
		metrics.MentorLogins.WithLabelValues("error").Inc()
		return nil, "", err
	}

	now := time.Now()
	session := &models.MentorSession{
		MentorID:  mentor.ID,
		Email:     mentor.Email,
		Name:      mentor.Name,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenManager.GetExpirationTime()).Unix(),
	}

	metrics.MentorLogins.WithLabelValues("success").Inc()
	return session, signed, nil
}

// GetSessionTTL returns the session cookie lifetime in seconds
func (s *MentorAuthService) GetSessionTTL() int {
	return int(s.tokenManager.GetExpirationTime().Seconds())
}

// GetCookieDomain returns the configured cookie domain
func (s *MentorAuthService) GetCookieDomain() string {
	return s.config.MentorSession.CookieDomain
}

// GetCookieSecure returns whether session cookies require HTTPS
func (s *MentorAuthService) GetCookieSecure() bool {
	return s.config.MentorSession.CookieSecure
}

// GetTokenManager returns the JWT token manager for session middleware
func (s *MentorAuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}
