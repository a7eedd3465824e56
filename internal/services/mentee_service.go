package services

import (
	"context"
	"errors"

	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// maxCreateAttempts bounds re-issuance when the token unique constraint
// catches a concurrent insert of the same value.
const maxCreateAttempts = 3

// MenteeService handles mentor-facing mentee management
type MenteeService struct {
	menteeRepo    repository.MenteeRepositoryInterface
	navigatorRepo repository.NavigatorRepositoryInterface
	tokenService  MenteeTokenServiceInterface
	summaryCache  cache.StageSummaryCacheInterface
}

// NewMenteeService creates a new MenteeService
func NewMenteeService(
	menteeRepo repository.MenteeRepositoryInterface,
	navigatorRepo repository.NavigatorRepositoryInterface,
	tokenService MenteeTokenServiceInterface,
	summaryCache cache.StageSummaryCacheInterface,
) *MenteeService {
	return &MenteeService{
		menteeRepo:    menteeRepo,
		navigatorRepo: navigatorRepo,
		tokenService:  tokenService,
		summaryCache:  summaryCache,
	}
}

// RegisterMentee enrolls a new mentee under the given mentor. The capability
// token is issued here, exactly once, before first persistence; the response
// is the only place the token is ever surfaced to the mentor.
func (s *MenteeService) RegisterMentee(ctx context.Context, mentorID int64, req *models.RegisterMenteeRequest) (*models.RegisterMenteeResponse, error) {
	stage := models.Stage(req.Stage)
	if !stage.IsValid() {
		metrics.MenteeRegistrations.WithLabelValues("invalid_stage").Inc()
		return nil, apperrors.InvalidInputError("stage", "unknown progression band")
	}

	// A navigator from another mentor is reported the same as a missing one
	if req.NavigatorID != nil {
		navigator, err := s.navigatorRepo.GetByID(ctx, *req.NavigatorID)
		if err != nil {
			metrics.MenteeRegistrations.WithLabelValues("navigator_not_found").Inc()
			return nil, err
		}
		if navigator.MentorID != mentorID {
			metrics.MenteeRegistrations.WithLabelValues("navigator_not_found").Inc()
			return nil, apperrors.NotFoundError("navigator")
		}
	}

	var mentee *models.Mentee
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		token, err := s.tokenService.Issue(ctx)
		if err != nil {
			metrics.MenteeRegistrations.WithLabelValues("token_issue_failed").Inc()
			return nil, err
		}

		mentee = &models.Mentee{
			Name:        req.Name,
			Stage:       stage,
			NavigatorID: req.NavigatorID,
			MentorID:    mentorID,
			Token:       token,
		}

		err = s.menteeRepo.Create(ctx, mentee)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the check-then-insert race; issue a fresh token
			logger.Warn("Token unique constraint hit on insert, reissuing",
				zap.Int("attempt", attempt+1))
			mentee = nil
			continue
		}
		metrics.MenteeRegistrations.WithLabelValues("error").Inc()
		return nil, err
	}
	if mentee == nil {
		metrics.MenteeRegistrations.WithLabelValues("error").Inc()
		return nil, apperrors.InternalError("could not persist mentee with a unique token")
	}

	s.summaryCache.Invalidate(mentorID)
	metrics.MenteeRegistrations.WithLabelValues("success").Inc()
	logger.Info("Mentee registered",
		zap.Int64("mentee_id", mentee.ID),
		zap.Int64("mentor_id", mentorID),
		zap.String("stage", string(mentee.Stage)))

	return &models.RegisterMenteeResponse{
		Mentee: mentee,
		Token:  mentee.Token,
	}, nil
}

// ListMentees returns the mentor's mentees, navigators, and the stage
// distribution of their mentees (bands with zero mentees are omitted).
func (s *MenteeService) ListMentees(ctx context.Context, mentorID int64) (*models.MenteeListResponse, error) {
	mentees, err := s.menteeRepo.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	navigators, err := s.navigatorRepo.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	counts, found := s.summaryCache.Get(mentorID)
	if !found {
		counts, err = s.menteeRepo.CountByStage(ctx, mentorID)
		if err != nil {
			return nil, err
		}
		s.summaryCache.Set(mentorID, counts)
	}

	stages := make([]models.StageCount, 0, len(counts))
	for _, choice := range models.StageChoices {
		if count := counts[choice.Code]; count > 0 {
			stages = append(stages, models.StageCount{
				Label: choice.Label,
				Count: count,
			})
		}
	}

	return &models.MenteeListResponse{
		Mentees:    mentees,
		Navigators: navigators,
		Stages:     stages,
	}, nil
}

// CreateNavigator adds a navigator under the given mentor. Navigators can
// then be attached to mentees at registration.
func (s *MenteeService) CreateNavigator(ctx context.Context, mentorID int64, req *models.CreateNavigatorRequest) (*models.Navigator, error) {
	navigator := &models.Navigator{
		Name:     req.Name,
		MentorID: mentorID,
	}
	if err := s.navigatorRepo.Create(ctx, navigator); err != nil {
		return nil, err
	}

	logger.Info("Navigator created",
		zap.Int64("navigator_id", navigator.ID),
		zap.Int64("mentor_id", mentorID))

	return navigator, nil
}
