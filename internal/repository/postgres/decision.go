package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
)

// DecisionLogRepository persists the append-only decision log. There are no
// update or delete statements in this file on purpose: superseded verdicts
// stay in the table as audit history and only stop counting in aggregation.
type DecisionLogRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewDecisionLogRepository(db *sqlx.DB, log *slog.Logger) *DecisionLogRepository {
	return &DecisionLogRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *DecisionLogRepository) AppendDecision(ctx context.Context, tx *sqlx.Tx, decision *domain.Decision) error {
	const op = "internal.repository.postgres.AppendDecision"

	query, args, err := r.sq.Insert("decisions").
		Columns("paper_id", "reviewer_id", "verdict", "evaluation", "submitted_at").
		Values(decision.PaperID, decision.ReviewerID, decision.Verdict, decision.Evaluation, decision.SubmittedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.GetContext(ctx, &decision.ID, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%s: %w: unknown paper or reviewer", op, apperrors.ErrNotFound)
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *DecisionLogRepository) ListDecisionsSince(ctx context.Context, ext sqlx.ExtContext, paperID string, since time.Time) ([]domain.Decision, error) {
	const op = "internal.repository.postgres.ListDecisionsSince"

	query, args, err := r.sq.Select("id", "paper_id", "reviewer_id", "verdict", "evaluation", "submitted_at").
		From("decisions").
		Where(sq.Eq{"paper_id": paperID}).
		Where(sq.GtOrEq{"submitted_at": since}).
		OrderBy("submitted_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var decisions []domain.Decision
	if err := sqlx.SelectContext(ctx, ext, &decisions, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select decisions: %w", op, err)
	}

	return decisions, nil
}

func (r *DecisionLogRepository) ListDecisionHistory(ctx context.Context, paperID string) ([]domain.Decision, error) {
	const op = "internal.repository.postgres.ListDecisionHistory"

	query, args, err := r.sq.Select("id", "paper_id", "reviewer_id", "verdict", "evaluation", "submitted_at").
		From("decisions").
		Where(sq.Eq{"paper_id": paperID}).
		OrderBy("submitted_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var decisions []domain.Decision
	if err := r.db.SelectContext(ctx, &decisions, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select decisions: %w", op, err)
	}

	return decisions, nil
}
