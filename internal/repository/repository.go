// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
)

// ReviewerRepository defines the contract for the reviewer registry.
type ReviewerRepository interface {
	// RegisterReviewers inserts the given reviewers in a single transaction.
	// It returns apperrors.ErrAlreadyExists if any reviewer id is taken.
	RegisterReviewers(ctx context.Context, reviewers []domain.Reviewer) error

	// SetIsActive updates the active status of a reviewer.
	// It returns apperrors.ErrNotFound if the reviewer does not exist.
	SetIsActive(ctx context.Context, reviewerID string, isActive bool) (*domain.Reviewer, error)

	// GetActiveReviewerIDs filters the given ids down to registered, active reviewers.
	GetActiveReviewerIDs(ctx context.Context, reviewerIDs []string) ([]string, error)
}

// PaperQueryRepository defines the contract for read-only paper operations, following the CQRS pattern.
type PaperQueryRepository interface {
	// GetPaperByID retrieves a single paper by its ID without its assignment snapshot.
	// Returns apperrors.ErrNotFound if the paper is not found.
	GetPaperByID(ctx context.Context, paperID string) (*domain.Paper, error)

	// GetPaperByIDWithReviewers retrieves a paper together with its assigned reviewer ids.
	// Returns apperrors.ErrNotFound if the paper is not found.
	GetPaperByIDWithReviewers(ctx context.Context, paperID string) (*domain.Paper, error)

	// GetAssignedReviewerIDs retrieves the assignment registry snapshot for a paper.
	// The ext argument allows this method to be executed within a transaction (*sqlx.Tx)
	// or directly on a DB connection (*sqlx.DB).
	GetAssignedReviewerIDs(ctx context.Context, ext sqlx.ExtContext, paperID string) ([]string, error)

	// GetReviewAssignments retrieves all papers still awaiting a verdict from the given reviewer.
	GetReviewAssignments(ctx context.Context, reviewerID string) ([]domain.Paper, error)

	// GetReviewerStats retrieves submitted/pending review counts for all reviewers.
	GetReviewerStats(ctx context.Context) ([]domain.Stats, error)
}

// PaperCommandRepository defines the contract for write and locking operations on papers,
// following the CQRS pattern. All methods are expected to be executed within a transaction.
type PaperCommandRepository interface {
	// CreatePaper inserts a new paper record.
	// It returns apperrors.ErrAlreadyExists if a paper with the same ID already exists.
	CreatePaper(ctx context.Context, tx *sqlx.Tx, paper *domain.Paper) error

	// AssignReviewers writes reviewer ids into the assignment registry for a paper.
	AssignReviewers(ctx context.Context, tx *sqlx.Tx, paperID string, reviewerIDs []string) error

	// GetPaperByIDWithLock retrieves a paper by its ID and acquires a row-level lock ("FOR UPDATE").
	// Every append-project-resolve-apply sequence runs under this lock, which serializes
	// concurrent submissions for the same paper while leaving other papers untouched.
	// It returns apperrors.ErrNotFound if the paper is not found.
	GetPaperByIDWithLock(ctx context.Context, tx *sqlx.Tx, paperID string) (*domain.Paper, error)

	// UpdatePaperStatus updates the derived status, phase and manual-check flag of a paper.
	// Terminal statuses also record decidedAt.
	UpdatePaperStatus(ctx context.Context, tx *sqlx.Tx, paperID string, status api.PaperStatus, phase api.LifecyclePhase, needsManualCheck bool, decidedAt time.Time) error

	// AdvancePhase moves a paper into a new review round and resets the
	// projector's scope window to phaseStartedAt.
	AdvancePhase(ctx context.Context, tx *sqlx.Tx, paperID string, phase api.LifecyclePhase, phaseStartedAt time.Time) error
}

// DecisionLogRepository defines the contract for the append-only decision log.
// Rows are immutable once written; there are deliberately no update or delete methods.
type DecisionLogRepository interface {
	// AppendDecision durably appends one verdict row and fills in the generated decision id.
	AppendDecision(ctx context.Context, tx *sqlx.Tx, decision *domain.Decision) error

	// ListDecisionsSince retrieves all decisions for a paper submitted at or after since,
	// ordered by (submitted_at, id) ascending as the projector expects.
	ListDecisionsSince(ctx context.Context, ext sqlx.ExtContext, paperID string, since time.Time) ([]domain.Decision, error)

	// ListDecisionHistory retrieves the complete audit trail for a paper, oldest first.
	ListDecisionHistory(ctx context.Context, paperID string) ([]domain.Decision, error)
}
