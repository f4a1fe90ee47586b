package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/logger/sl"
)

type ReviewerRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReviewerRepository(db *sqlx.DB, log *slog.Logger) *ReviewerRepository {
	return &ReviewerRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ReviewerRepository) RegisterReviewers(ctx context.Context, reviewers []domain.Reviewer) error {
	const op = "internal.repository.postgres.RegisterReviewers"

	insertBuilder := r.sq.Insert("reviewers").
		Columns("id", "full_name", "is_active")

	for _, reviewer := range reviewers {
		insertBuilder = insertBuilder.Values(reviewer.ID, reviewer.FullName, reviewer.IsActive)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.log.Error("failed to rollback transaction", sl.Err(err))
		}
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &apperrors.ReviewerAlreadyExistsError{ReviewerID: pqErr.Detail}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

func (r *ReviewerRepository) SetIsActive(ctx context.Context, reviewerID string, isActive bool) (*domain.Reviewer, error) {
	const op = "internal.repository.postgres.SetIsActive"

	query, args, err := r.sq.Update("reviewers").
		Set("is_active", isActive).
		Where(sq.Eq{"id": reviewerID}).
		Suffix("RETURNING id, full_name, is_active").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var reviewer domain.Reviewer
	if err := r.db.GetContext(ctx, &reviewer, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: reviewer with id '%s'", op, apperrors.ErrNotFound, reviewerID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &reviewer, nil
}

func (r *ReviewerRepository) GetActiveReviewerIDs(ctx context.Context, reviewerIDs []string) ([]string, error) {
	const op = "internal.repository.postgres.GetActiveReviewerIDs"

	query, args, err := r.sq.Select("id").
		From("reviewers").
		Where(sq.Eq{"id": reviewerIDs, "is_active": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var activeIDs []string
	if err := r.db.SelectContext(ctx, &activeIDs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return activeIDs, nil
}
