package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/internal/repository"
	"github.com/sempozyum/paper-review-service/internal/review"
	"github.com/sempozyum/paper-review-service/pkg/api"
)

type DecisionService interface {
	SubmitDecision(ctx context.Context, paperID string, reviewerID string, verdict api.Verdict, evaluation json.RawMessage) (*api.SubmitDecisionResponse, error)
	GetAggregation(ctx context.Context, paperID string) (*api.AggregationResponse, error)
	GetDecisionHistory(ctx context.Context, paperID string) (*api.DecisionHistoryResponse, error)
	GetStats(ctx context.Context) (*api.StatsResponse, error)
}

type DecisionServiceImpl struct {
	db          Transactor
	ext         sqlx.ExtContext
	log         *slog.Logger
	paperCmd    repository.PaperCommandRepository
	paperQuery  repository.PaperQueryRepository
	decisionLog repository.DecisionLogRepository
}

func NewDecisionService(
	db Transactor,
	ext sqlx.ExtContext,
	log *slog.Logger,
	paperCmd repository.PaperCommandRepository,
	paperQuery repository.PaperQueryRepository,
	decisionLog repository.DecisionLogRepository,
) *DecisionServiceImpl {
	return &DecisionServiceImpl{
		db:          db,
		ext:         ext,
		log:         log,
		paperCmd:    paperCmd,
		paperQuery:  paperQuery,
		decisionLog: decisionLog,
	}
}

// SubmitDecision appends one verdict to the decision log and re-derives the
// paper's lifecycle status from the updated log. The whole sequence runs in
// a single transaction under a row lock on the paper, so two reviewers
// voting at the same instant are applied one after the other and the
// projector never observes a torn intermediate state.
func (s *DecisionServiceImpl) SubmitDecision(ctx context.Context, paperID string, reviewerID string, verdict api.Verdict, evaluation json.RawMessage) (*api.SubmitDecisionResponse, error) {
	const op = "internal.service.decision.SubmitDecision"
	log := s.log.With(slog.String("op", op), slog.String("paper_id", paperID), slog.String("reviewer_id", reviewerID))

	if !verdict.Valid() {
		return nil, fmt.Errorf("%w: got '%s'", apperrors.ErrInvalidVerdict, verdict)
	}

	now := time.Now().UTC()

	decision := &domain.Decision{
		PaperID:     paperID,
		ReviewerID:  reviewerID,
		Verdict:     verdict,
		Evaluation:  evaluation,
		SubmittedAt: now,
	}

	var resolution review.Resolution

	err := transaction(ctx, s.db, s.log, op, func(tx *sqlx.Tx) error {
		paper, err := s.paperCmd.GetPaperByIDWithLock(ctx, tx, paperID)
		if err != nil {
			return fmt.Errorf("%s: failed to get paper with lock: %w", op, err)
		}

		if paper.Status.Terminal() {
			return apperrors.ErrPaperFinalized
		}

		if paper.Phase == api.PhaseREVISIONPENDING {
			return apperrors.ErrRevisionPending
		}

		// Snapshot of the assignment registry as of aggregation time.
		assigned, err := s.paperQuery.GetAssignedReviewerIDs(ctx, tx, paperID)
		if err != nil {
			return fmt.Errorf("%s: failed to get assignment snapshot: %w", op, err)
		}

		if !contains(assigned, reviewerID) {
			return apperrors.ErrReviewerNotAssigned
		}

		if err := s.decisionLog.AppendDecision(ctx, tx, decision); err != nil {
			return fmt.Errorf("%s: failed to append decision: %w", op, err)
		}

		decisions, err := s.decisionLog.ListDecisionsSince(ctx, tx, paperID, paper.PhaseStartedAt)
		if err != nil {
			return fmt.Errorf("%s: failed to list decisions: %w", op, err)
		}

		paper.ReviewerIDs = assigned
		result := review.Project(decisions, assigned, paper.PhaseStartedAt)
		resolution = review.Resolve(paper, result)

		// The round ends when a revision is requested; resubmission later
		// moves the paper into POST_REVISION_ROUND via AdvancePhase.
		targetPhase := paper.Phase
		if resolution.Status == api.PaperStatusREVISIONREQUESTED {
			targetPhase = api.PhaseREVISIONPENDING
		}

		if resolution.Changed || targetPhase != paper.Phase || resolution.ManualCheck != paper.NeedsManualCheck {
			if err := s.paperCmd.UpdatePaperStatus(ctx, tx, paperID, resolution.Status, targetPhase, resolution.ManualCheck, now); err != nil {
				return fmt.Errorf("%s: failed to update paper status: %w", op, err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if resolution.ManualCheck {
		log.Warn("unknown verdict in aggregation, paper flagged for manual inspection")
	}

	resp := &api.SubmitDecisionResponse{
		DecisionID:    decision.ID,
		StatusChanged: resolution.Changed,
	}

	if resolution.Changed {
		status := resolution.Status
		resp.NewStatus = &status

		log.Info("paper status resolved", slog.String("new_status", string(status)))
	} else {
		log.Info("decision recorded, status unchanged")
	}

	return resp, nil
}

// GetAggregation is the read-only diagnostic view over the current round:
// each reviewer's latest verdict and whether the quorum is complete.
func (s *DecisionServiceImpl) GetAggregation(ctx context.Context, paperID string) (*api.AggregationResponse, error) {
	const op = "internal.service.decision.GetAggregation"

	paper, err := s.paperQuery.GetPaperByIDWithReviewers(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get paper: %w", op, err)
	}

	decisions, err := s.decisionLog.ListDecisionsSince(ctx, s.ext, paperID, paper.PhaseStartedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list decisions: %w", op, err)
	}

	result := review.Project(decisions, paper.ReviewerIDs, paper.PhaseStartedAt)

	return &api.AggregationResponse{
		PaperID:          paperID,
		LatestByReviewer: result.LatestByReviewer,
		QuorumMet:        result.QuorumMet,
		CurrentStatus:    paper.Status,
	}, nil
}

func (s *DecisionServiceImpl) GetDecisionHistory(ctx context.Context, paperID string) (*api.DecisionHistoryResponse, error) {
	const op = "internal.service.decision.GetDecisionHistory"

	if _, err := s.paperQuery.GetPaperByID(ctx, paperID); err != nil {
		return nil, fmt.Errorf("%s: failed to get paper: %w", op, err)
	}

	decisions, err := s.decisionLog.ListDecisionHistory(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list decision history: %w", op, err)
	}

	apiDecisions := make([]api.Decision, len(decisions))
	for i, d := range decisions {
		apiDecisions[i] = api.Decision{
			DecisionID:  d.ID,
			PaperID:     d.PaperID,
			ReviewerID:  d.ReviewerID,
			Verdict:     d.Verdict,
			Evaluation:  d.Evaluation,
			SubmittedAt: d.SubmittedAt,
		}
	}

	return &api.DecisionHistoryResponse{
		PaperID:   paperID,
		Decisions: apiDecisions,
	}, nil
}

func (s *DecisionServiceImpl) GetStats(ctx context.Context) (*api.StatsResponse, error) {
	const op = "internal.service.decision.GetStats"

	stats, err := s.paperQuery.GetReviewerStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get reviewer stats: %w", op, err)
	}

	reviewerStats := make([]api.ReviewerStats, len(stats))
	for i, stat := range stats {
		reviewerStats[i] = api.ReviewerStats{
			ReviewerID:        stat.ReviewerID,
			FullName:          stat.FullName,
			SubmittedVerdicts: stat.SubmittedVerdicts,
			PendingReviews:    stat.PendingReviews,
		}
	}

	return &api.StatsResponse{ReviewerStats: reviewerStats}, nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}
