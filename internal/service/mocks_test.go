package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/internal/repository"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/stretchr/testify/mock"
)

type TransactorMock struct {
	mock.Mock
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type PaperCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.PaperCommandRepository = (*PaperCommandRepositoryMock)(nil)

func (m *PaperCommandRepositoryMock) CreatePaper(ctx context.Context, tx *sqlx.Tx, paper *domain.Paper) error {
	args := m.Called(ctx, tx, paper)
	return args.Error(0)
}

func (m *PaperCommandRepositoryMock) AssignReviewers(ctx context.Context, tx *sqlx.Tx, paperID string, reviewerIDs []string) error {
	args := m.Called(ctx, tx, paperID, reviewerIDs)
	return args.Error(0)
}

func (m *PaperCommandRepositoryMock) GetPaperByIDWithLock(ctx context.Context, tx *sqlx.Tx, paperID string) (*domain.Paper, error) {
	args := m.Called(ctx, tx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Paper), args.Error(1)
}

func (m *PaperCommandRepositoryMock) UpdatePaperStatus(ctx context.Context, tx *sqlx.Tx, paperID string, status api.PaperStatus, phase api.LifecyclePhase, needsManualCheck bool, decidedAt time.Time) error {
	args := m.Called(ctx, tx, paperID, status, phase, needsManualCheck, decidedAt)
	return args.Error(0)
}

func (m *PaperCommandRepositoryMock) AdvancePhase(ctx context.Context, tx *sqlx.Tx, paperID string, phase api.LifecyclePhase, phaseStartedAt time.Time) error {
	args := m.Called(ctx, tx, paperID, phase, phaseStartedAt)
	return args.Error(0)
}

type PaperQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.PaperQueryRepository = (*PaperQueryRepositoryMock)(nil)

func (m *PaperQueryRepositoryMock) GetPaperByID(ctx context.Context, paperID string) (*domain.Paper, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Paper), args.Error(1)
}

func (m *PaperQueryRepositoryMock) GetPaperByIDWithReviewers(ctx context.Context, paperID string) (*domain.Paper, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Paper), args.Error(1)
}

func (m *PaperQueryRepositoryMock) GetAssignedReviewerIDs(ctx context.Context, ext sqlx.ExtContext, paperID string) ([]string, error) {
	args := m.Called(ctx, ext, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

func (m *PaperQueryRepositoryMock) GetReviewAssignments(ctx context.Context, reviewerID string) ([]domain.Paper, error) {
	args := m.Called(ctx, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Paper), args.Error(1)
}

func (m *PaperQueryRepositoryMock) GetReviewerStats(ctx context.Context) ([]domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Stats), args.Error(1)
}

type DecisionLogRepositoryMock struct {
	mock.Mock
}

var _ repository.DecisionLogRepository = (*DecisionLogRepositoryMock)(nil)

func (m *DecisionLogRepositoryMock) AppendDecision(ctx context.Context, tx *sqlx.Tx, decision *domain.Decision) error {
	args := m.Called(ctx, tx, decision)
	return args.Error(0)
}

func (m *DecisionLogRepositoryMock) ListDecisionsSince(ctx context.Context, ext sqlx.ExtContext, paperID string, since time.Time) ([]domain.Decision, error) {
	args := m.Called(ctx, ext, paperID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Decision), args.Error(1)
}

func (m *DecisionLogRepositoryMock) ListDecisionHistory(ctx context.Context, paperID string) ([]domain.Decision, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Decision), args.Error(1)
}

type ReviewerRepositoryMock struct {
	mock.Mock
}

var _ repository.ReviewerRepository = (*ReviewerRepositoryMock)(nil)

func (m *ReviewerRepositoryMock) RegisterReviewers(ctx context.Context, reviewers []domain.Reviewer) error {
	args := m.Called(ctx, reviewers)
	return args.Error(0)
}

func (m *ReviewerRepositoryMock) SetIsActive(ctx context.Context, reviewerID string, isActive bool) (*domain.Reviewer, error) {
	args := m.Called(ctx, reviewerID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Reviewer), args.Error(1)
}

func (m *ReviewerRepositoryMock) GetActiveReviewerIDs(ctx context.Context, reviewerIDs []string) ([]string, error) {
	args := m.Called(ctx, reviewerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}
