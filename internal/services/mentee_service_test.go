package services_test

import (
	"context"
	"testing"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMenteeTokenService is a mock implementation of MenteeTokenServiceInterface
type MockMenteeTokenService struct {
	mock.Mock
}

func (m *MockMenteeTokenService) Issue(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockMenteeTokenService) Validate(ctx context.Context, token string) (*models.Mentee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func newMenteeService(menteeRepo *MockMenteeRepository, navigatorRepo *MockNavigatorRepository, tokenService *MockMenteeTokenService, summaryCache *MockStageSummaryCache) *services.MenteeService {
	return services.NewMenteeService(menteeRepo, navigatorRepo, tokenService, summaryCache)
}

func TestMenteeService_RegisterMentee_Success(t *testing.T) {
	menteeRepo := new(MockMenteeRepository)
	navigatorRepo := new(MockNavigatorRepository)
	tokenService := new(MockMenteeTokenService)
	summaryCache := new(MockStageSummaryCache)

	tokenService.On("Issue", mock.Anything).Return("aB3xK9dQw2c", nil)
	menteeRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Mentee")).Return(nil)
	summaryCache.On("Invalidate", int64(1)).Return()

	svc := newMenteeService(menteeRepo, navigatorRepo, tokenService, summaryCache)

	resp, err := svc.RegisterMentee(context.Background(), 1, &models.RegisterMenteeRequest{
		Name:  "Alex",
		Stage: "E2",
	})

	require.NoError(t, err)
	assert.Equal(t, "aB3xK9dQw2c", resp.Token)
	assert.Equal(t, models.StageE2, resp.Mentee.Stage)
	assert.Equal(t, int64(1), resp.Mentee.MentorID)
	summaryCache.AssertCalled(t, "Invalidate", int64(1))
}

func TestMenteeService_RegisterMentee_InvalidStage(t *testing.T) {
	svc := newMenteeService(new(MockMenteeRepository), new(MockNavigatorRepository), new(MockMenteeTokenService), new(MockStageSummaryCache))

	_, err := svc.RegisterMentee(context.Background(), 1, &models.RegisterMenteeRequest{
		Name:  "Alex",
		Stage: "E10",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestMenteeService_RegisterMentee_ForeignNavigatorCollapsedToNotFound(t *testing.T) {
	menteeRepo := new(MockMenteeRepository)
	navigatorRepo := new(MockNavigatorRepository)
	tokenService := new(MockMenteeTokenService)
	summaryCache := new(MockStageSummaryCache)

	navID := int64(9)
	// Navigator exists but belongs to mentor 2
	navigatorRepo.On("GetByID", mock.Anything, navID).Return(&models.Navigator{ID: navID, MentorID: 2}, nil)

	svc := newMenteeService(menteeRepo, navigatorRepo, tokenService, summaryCache)

	_, err := svc.RegisterMentee(context.Background(), 1, &models.RegisterMenteeRequest{
		Name:        "Alex",
		Stage:       "E2",
		NavigatorID: &navID,
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	tokenService.AssertNotCalled(t, "Issue")
}

func TestMenteeService_RegisterMentee_ReissuesTokenOnInsertConflict(t *testing.T) {
	menteeRepo := new(MockMenteeRepository)
	navigatorRepo := new(MockNavigatorRepository)
	tokenService := new(MockMenteeTokenService)
	summaryCache := new(MockStageSummaryCache)

	tokenService.On("Issue", mock.Anything).Return("first-token1", nil).Once()
	tokenService.On("Issue", mock.Anything).Return("second-tokn2", nil).Once()
	// Lost the check-then-insert race once; second insert succeeds
	menteeRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Mentee")).Return(apperrors.ErrConflict).Once()
	menteeRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Mentee")).Return(nil).Once()
	summaryCache.On("Invalidate", int64(1)).Return()

	svc := newMenteeService(menteeRepo, navigatorRepo, tokenService, summaryCache)

	resp, err := svc.RegisterMentee(context.Background(), 1, &models.RegisterMenteeRequest{
		Name:  "Alex",
		Stage: "E5",
	})

	require.NoError(t, err)
	assert.Equal(t, "second-tokn2", resp.Token)
	tokenService.AssertNumberOfCalls(t, "Issue", 2)
}

func TestMenteeService_ListMentees_UsesCachedCounts(t *testing.T) {
	menteeRepo := new(MockMenteeRepository)
	navigatorRepo := new(MockNavigatorRepository)
	summaryCache := new(MockStageSummaryCache)

	menteeRepo.On("ListByMentor", mock.Anything, int64(1)).Return([]*models.Mentee{
		{ID: 1, Name: "Alex", Stage: models.StageE2, MentorID: 1},
	}, nil)
	navigatorRepo.On("ListByMentor", mock.Anything, int64(1)).Return([]*models.Navigator{}, nil)
	summaryCache.On("Get", int64(1)).Return(map[models.Stage]int{models.StageE2: 1}, true)

	svc := newMenteeService(menteeRepo, navigatorRepo, new(MockMenteeTokenService), summaryCache)

	resp, err := svc.ListMentees(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, resp.Stages, 1)
	assert.Equal(t, "100k-200k", resp.Stages[0].Label)
	assert.Equal(t, 1, resp.Stages[0].Count)
	menteeRepo.AssertNotCalled(t, "CountByStage")
}

func TestMenteeService_ListMentees_CacheMissFillsCache(t *testing.T) {
	menteeRepo := new(MockMenteeRepository)
	navigatorRepo := new(MockNavigatorRepository)
	summaryCache := new(MockStageSummaryCache)

	counts := map[models.Stage]int{models.StageE1: 2, models.StageE9: 1}
	menteeRepo.On("ListByMentor", mock.Anything, int64(1)).Return([]*models.Mentee{}, nil)
	navigatorRepo.On("ListByMentor", mock.Anything, int64(1)).Return([]*models.Navigator{}, nil)
	summaryCache.On("Get", int64(1)).Return(nil, false)
	menteeRepo.On("CountByStage", mock.Anything, int64(1)).Return(counts, nil)
	summaryCache.On("Set", int64(1), counts).Return()

	svc := newMenteeService(menteeRepo, navigatorRepo, new(MockMenteeTokenService), summaryCache)

	resp, err := svc.ListMentees(context.Background(), 1)

	require.NoError(t, err)
	// Bands with zero mentees are omitted, remaining bands keep their order
	require.Len(t, resp.Stages, 2)
	assert.Equal(t, "10-100k", resp.Stages[0].Label)
	assert.Equal(t, "800k-1M", resp.Stages[1].Label)
	summaryCache.AssertCalled(t, "Set", int64(1), counts)
}

func TestMenteeService_CreateNavigator(t *testing.T) {
	navigatorRepo := new(MockNavigatorRepository)
	navigatorRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Navigator) bool {
		return n.Name == "Alex" && n.MentorID == int64(7)
	})).Return(nil)

	svc := newMenteeService(new(MockMenteeRepository), navigatorRepo, new(MockMenteeTokenService), new(MockStageSummaryCache))

	navigator, err := svc.CreateNavigator(context.Background(), 7, &models.CreateNavigatorRequest{Name: "Alex"})

	require.NoError(t, err)
	assert.Equal(t, "Alex", navigator.Name)
	assert.Equal(t, int64(7), navigator.MentorID)
	navigatorRepo.AssertExpectations(t)
}
