package http

import (
	"context"
	"encoding/json"

	"github.com/sempozyum/paper-review-service/internal/service"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/stretchr/testify/mock"
)

type ReviewerServiceMock struct {
	mock.Mock
}

var _ service.ReviewerService = (*ReviewerServiceMock)(nil)

func (m *ReviewerServiceMock) RegisterReviewers(ctx context.Context, reviewers []api.Reviewer) ([]api.Reviewer, error) {
	args := m.Called(ctx, reviewers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Reviewer), args.Error(1)
}

func (m *ReviewerServiceMock) SetIsActive(ctx context.Context, reviewerID string, isActive bool) (*api.Reviewer, error) {
	args := m.Called(ctx, reviewerID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Reviewer), args.Error(1)
}

type PaperServiceMock struct {
	mock.Mock
}

var _ service.PaperService = (*PaperServiceMock)(nil)

func (m *PaperServiceMock) CreatePaper(ctx context.Context, paperID string, title string, authorID string) (*api.Paper, error) {
	args := m.Called(ctx, paperID, title, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Paper), args.Error(1)
}

func (m *PaperServiceMock) AssignReviewers(ctx context.Context, paperID string, reviewerIDs []string) (*api.Paper, error) {
	args := m.Called(ctx, paperID, reviewerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Paper), args.Error(1)
}

func (m *PaperServiceMock) AdvancePhase(ctx context.Context, paperID string) (*api.AdvancePhaseResponse, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.AdvancePhaseResponse), args.Error(1)
}

func (m *PaperServiceMock) GetPaper(ctx context.Context, paperID string) (*api.Paper, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Paper), args.Error(1)
}

func (m *PaperServiceMock) GetReviewAssignments(ctx context.Context, reviewerID string) (*api.GetReviewResponse, error) {
	args := m.Called(ctx, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.GetReviewResponse), args.Error(1)
}

type DecisionServiceMock struct {
	mock.Mock
}

var _ service.DecisionService = (*DecisionServiceMock)(nil)

func (m *DecisionServiceMock) SubmitDecision(ctx context.Context, paperID string, reviewerID string, verdict api.Verdict, evaluation json.RawMessage) (*api.SubmitDecisionResponse, error) {
	args := m.Called(ctx, paperID, reviewerID, verdict, evaluation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.SubmitDecisionResponse), args.Error(1)
}

func (m *DecisionServiceMock) GetAggregation(ctx context.Context, paperID string) (*api.AggregationResponse, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.AggregationResponse), args.Error(1)
}

func (m *DecisionServiceMock) GetDecisionHistory(ctx context.Context, paperID string) (*api.DecisionHistoryResponse, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.DecisionHistoryResponse), args.Error(1)
}

func (m *DecisionServiceMock) GetStats(ctx context.Context) (*api.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.StatsResponse), args.Error(1)
}
