package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/internal/repository"
	"github.com/sempozyum/paper-review-service/pkg/api"
)

type ReviewerService interface {
	RegisterReviewers(ctx context.Context, reviewers []api.Reviewer) ([]api.Reviewer, error)
	SetIsActive(ctx context.Context, reviewerID string, isActive bool) (*api.Reviewer, error)
}

type ReviewerServiceImpl struct {
	log  *slog.Logger
	repo repository.ReviewerRepository
}

func NewReviewerService(log *slog.Logger, repo repository.ReviewerRepository) *ReviewerServiceImpl {
	return &ReviewerServiceImpl{
		log:  log,
		repo: repo,
	}
}

func (s *ReviewerServiceImpl) RegisterReviewers(ctx context.Context, reviewers []api.Reviewer) ([]api.Reviewer, error) {
	const op = "internal.service.reviewer.RegisterReviewers"

	domainReviewers := make([]domain.Reviewer, len(reviewers))
	for i, reviewer := range reviewers {
		domainReviewers[i] = domain.Reviewer{
			ID:       reviewer.ReviewerID,
			FullName: reviewer.FullName,
			IsActive: reviewer.IsActive,
		}
	}

	if err := s.repo.RegisterReviewers(ctx, domainReviewers); err != nil {
		return nil, fmt.Errorf("%s: failed to register reviewers: %w", op, err)
	}

	s.log.Info("reviewers registered", slog.Int("count", len(reviewers)))

	return reviewers, nil
}

func (s *ReviewerServiceImpl) SetIsActive(ctx context.Context, reviewerID string, isActive bool) (*api.Reviewer, error) {
	const op = "internal.service.reviewer.SetIsActive"

	reviewer, err := s.repo.SetIsActive(ctx, reviewerID, isActive)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to set is_active: %w", op, err)
	}

	return &api.Reviewer{
		ReviewerID: reviewer.ID,
		FullName:   reviewer.FullName,
		IsActive:   reviewer.IsActive,
	}, nil
}
