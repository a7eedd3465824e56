package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	// tokenEntropyBytes is the raw entropy per capability token. The
	// base64url encoding of 8 bytes is 11 characters.
	tokenEntropyBytes = 8

	// maxIssueAttempts bounds the collision retry loop. With 64 bits of
	// entropy a second collision in a row means something is badly wrong.
	maxIssueAttempts = 10
)

// MenteeTokenService mints and resolves mentee capability tokens. A token is
// the bearer credential for exactly one mentee record: validation is a
// byte-exact equality lookup with no expiry at this layer.
type MenteeTokenService struct {
	menteeRepo repository.MenteeRepositoryInterface
}

// NewMenteeTokenService creates a new MenteeTokenService
func NewMenteeTokenService(menteeRepo repository.MenteeRepositoryInterface) *MenteeTokenService {
	return &MenteeTokenService{
		menteeRepo: menteeRepo,
	}
}

// Issue generates a cryptographically random URL-safe token and regenerates
// until no existing mentee record holds the same value. The uniqueness check
// runs against the full record set. The check-then-insert race window that
// remains is closed by the unique constraint on the token column.
func (s *MenteeTokenService) Issue(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		token, err := generateToken()
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}

		exists, err := s.menteeRepo.ExistsByToken(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}

		metrics.TokenIssueRetries.Inc()
		logger.Warn("Capability token collision, regenerating",
			zap.Int("attempt", attempt+1))
	}

	return "", apperrors.InternalError("could not generate a unique capability token")
}

// Validate returns the mentee record whose stored token exactly equals the
// candidate string. Callers must treat ErrInvalidToken identically to an
// absent token.
func (s *MenteeTokenService) Validate(ctx context.Context, token string) (*models.Mentee, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidToken
	}

	mentee, err := s.menteeRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	return mentee, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
