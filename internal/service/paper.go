package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/internal/repository"
	"github.com/sempozyum/paper-review-service/pkg/api"
)

type PaperService interface {
	CreatePaper(ctx context.Context, paperID string, title string, authorID string) (*api.Paper, error)
	AssignReviewers(ctx context.Context, paperID string, reviewerIDs []string) (*api.Paper, error)
	AdvancePhase(ctx context.Context, paperID string) (*api.AdvancePhaseResponse, error)
	GetPaper(ctx context.Context, paperID string) (*api.Paper, error)
	GetReviewAssignments(ctx context.Context, reviewerID string) (*api.GetReviewResponse, error)
}

type PaperServiceImpl struct {
	db         Transactor
	log        *slog.Logger
	paperCmd   repository.PaperCommandRepository
	paperQuery repository.PaperQueryRepository
	reviewers  repository.ReviewerRepository
}

func NewPaperService(
	db Transactor,
	log *slog.Logger,
	paperCmd repository.PaperCommandRepository,
	paperQuery repository.PaperQueryRepository,
	reviewers repository.ReviewerRepository,
) *PaperServiceImpl {
	return &PaperServiceImpl{
		db:         db,
		log:        log,
		paperCmd:   paperCmd,
		paperQuery: paperQuery,
		reviewers:  reviewers,
	}
}

func (s *PaperServiceImpl) CreatePaper(ctx context.Context, paperID string, title string, authorID string) (*api.Paper, error) {
	const op = "internal.service.paper.CreatePaper"
	log := s.log.With(slog.String("op", op), slog.String("paper_id", paperID), slog.String("author_id", authorID))

	now := time.Now().UTC()

	paper := &domain.Paper{
		ID:             paperID,
		Title:          title,
		AuthorID:       authorID,
		Status:         api.PaperStatusPENDING,
		Phase:          api.PhaseFIRSTROUND,
		PhaseStartedAt: now,
		CreatedAt:      now,
	}

	err := transaction(ctx, s.db, s.log, op, func(tx *sqlx.Tx) error {
		return s.paperCmd.CreatePaper(ctx, tx, paper)
	})
	if err != nil {
		return nil, err
	}

	log.Info("paper created successfully")

	return toAPIPaper(paper), nil
}

// AssignReviewers writes the assignment registry for a paper. Only
// registered, active reviewers can be assigned; a PENDING paper moves to
// UNDER_REVIEW once it has reviewers.
func (s *PaperServiceImpl) AssignReviewers(ctx context.Context, paperID string, reviewerIDs []string) (*api.Paper, error) {
	const op = "internal.service.paper.AssignReviewers"
	log := s.log.With(slog.String("op", op), slog.String("paper_id", paperID))

	activeIDs, err := s.reviewers.GetActiveReviewerIDs(ctx, reviewerIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check reviewers: %w", op, err)
	}

	if len(activeIDs) != len(dedupe(reviewerIDs)) {
		return nil, fmt.Errorf("%w: unknown or inactive reviewer in assignment list", apperrors.ErrNotFound)
	}

	var paper *domain.Paper

	err = transaction(ctx, s.db, s.log, op, func(tx *sqlx.Tx) error {
		paper, err = s.paperCmd.GetPaperByIDWithLock(ctx, tx, paperID)
		if err != nil {
			return fmt.Errorf("%s: failed to get paper with lock: %w", op, err)
		}

		if paper.Status.Terminal() {
			return apperrors.ErrPaperFinalized
		}

		if err := s.paperCmd.AssignReviewers(ctx, tx, paperID, activeIDs); err != nil {
			return fmt.Errorf("%s: failed to assign reviewers: %w", op, err)
		}

		if paper.Status == api.PaperStatusPENDING {
			if err := s.paperCmd.UpdatePaperStatus(ctx, tx, paperID, api.PaperStatusUNDERREVIEW, paper.Phase, paper.NeedsManualCheck, time.Now().UTC()); err != nil {
				return fmt.Errorf("%s: failed to update paper status: %w", op, err)
			}

			paper.Status = api.PaperStatusUNDERREVIEW
		}

		paper.ReviewerIDs, err = s.paperQuery.GetAssignedReviewerIDs(ctx, tx, paperID)
		if err != nil {
			return fmt.Errorf("%s: failed to get updated assignments: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("reviewers assigned", slog.Any("reviewers", paper.ReviewerIDs))

	return toAPIPaper(paper), nil
}

// AdvancePhase is the editorial action that moves a resubmitted paper into
// its re-review round. Resetting phase_started_at re-scopes the projector
// window, so first-round verdicts stop counting and quorum tracking
// restarts from zero.
func (s *PaperServiceImpl) AdvancePhase(ctx context.Context, paperID string) (*api.AdvancePhaseResponse, error) {
	const op = "internal.service.paper.AdvancePhase"
	log := s.log.With(slog.String("op", op), slog.String("paper_id", paperID))

	phaseStartedAt := time.Now().UTC()

	err := transaction(ctx, s.db, s.log, op, func(tx *sqlx.Tx) error {
		paper, err := s.paperCmd.GetPaperByIDWithLock(ctx, tx, paperID)
		if err != nil {
			return fmt.Errorf("%s: failed to get paper with lock: %w", op, err)
		}

		if paper.Phase != api.PhaseREVISIONPENDING {
			return apperrors.ErrPhaseNotAdvanceable
		}

		if err := s.paperCmd.AdvancePhase(ctx, tx, paperID, api.PhasePOSTREVISIONROUND, phaseStartedAt); err != nil {
			return fmt.Errorf("%s: failed to advance phase: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("paper entered post-revision round")

	return &api.AdvancePhaseResponse{
		PaperID:        paperID,
		Phase:          api.PhasePOSTREVISIONROUND,
		PhaseStartedAt: phaseStartedAt,
	}, nil
}

func (s *PaperServiceImpl) GetPaper(ctx context.Context, paperID string) (*api.Paper, error) {
	const op = "internal.service.paper.GetPaper"

	paper, err := s.paperQuery.GetPaperByIDWithReviewers(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get paper: %w", op, err)
	}

	return toAPIPaper(paper), nil
}

func (s *PaperServiceImpl) GetReviewAssignments(ctx context.Context, reviewerID string) (*api.GetReviewResponse, error) {
	const op = "internal.service.paper.GetReviewAssignments"

	papers, err := s.paperQuery.GetReviewAssignments(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get review assignments: %w", op, err)
	}

	apiPapers := make([]api.PaperShort, len(papers))
	for i, paper := range papers {
		apiPapers[i] = api.PaperShort{
			PaperID:  paper.ID,
			Title:    paper.Title,
			AuthorID: paper.AuthorID,
			Status:   paper.Status,
		}
	}

	return &api.GetReviewResponse{
		ReviewerID: reviewerID,
		Papers:     apiPapers,
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
