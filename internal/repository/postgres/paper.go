package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/sempozyum/paper-review-service/pkg/logger/sl"
)

const paperColumns = "id, title, author_id, status, phase, needs_manual_check, phase_started_at, created_at, decided_at"

type PaperRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewPaperRepository(db *sqlx.DB, log *slog.Logger) *PaperRepository {
	return &PaperRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PaperRepository) CreatePaper(ctx context.Context, tx *sqlx.Tx, paper *domain.Paper) error {
	const op = "internal.repository.postgres.CreatePaper"

	query, args, err := r.sq.Insert("papers").
		Columns("id", "title", "author_id", "status", "phase", "phase_started_at", "created_at").
		Values(paper.ID, paper.Title, paper.AuthorID, paper.Status, paper.Phase, paper.PhaseStartedAt, paper.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &apperrors.PaperAlreadyExistsError{PaperID: paper.ID}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *PaperRepository) AssignReviewers(ctx context.Context, tx *sqlx.Tx, paperID string, reviewerIDs []string) error {
	const op = "internal.repository.postgres.AssignReviewers"

	insertBuilder := r.sq.Insert("assignments").
		Columns("paper_id", "reviewer_id")

	for _, reviewerID := range reviewerIDs {
		insertBuilder = insertBuilder.Values(paperID, reviewerID)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (paper_id, reviewer_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%s: %w: unknown paper or reviewer", op, apperrors.ErrNotFound)
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *PaperRepository) GetPaperByID(ctx context.Context, paperID string) (*domain.Paper, error) {
	const op = "internal.repository.postgres.GetPaperByID"

	query, args, err := r.sq.Select(paperColumns).
		From("papers").
		Where(sq.Eq{"id": paperID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var paper domain.Paper
	if err := r.db.GetContext(ctx, &paper, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: paper with id '%s'", op, apperrors.ErrNotFound, paperID)
		}

		return nil, fmt.Errorf("%s: failed to get paper: %w", op, err)
	}

	return &paper, nil
}

func (r *PaperRepository) GetPaperByIDWithReviewers(ctx context.Context, paperID string) (*domain.Paper, error) {
	const op = "internal.repository.postgres.GetPaperByIDWithReviewers"

	paper, err := r.GetPaperByID(ctx, paperID)
	if err != nil {
		return nil, err
	}

	reviewerIDs, err := r.GetAssignedReviewerIDs(ctx, r.db, paperID)
	if err != nil {
		r.log.Error("failed to get assigned reviewers", sl.Err(err), slog.String("paper_id", paperID))
		return nil, fmt.Errorf("%s: failed to get assigned reviewers: %w", op, err)
	}

	paper.ReviewerIDs = reviewerIDs

	return paper, nil
}

func (r *PaperRepository) GetPaperByIDWithLock(ctx context.Context, tx *sqlx.Tx, paperID string) (*domain.Paper, error) {
	const op = "internal.repository.postgres.GetPaperByIDWithLock"

	query, args, err := r.sq.Select(paperColumns).
		From("papers").
		Where(sq.Eq{"id": paperID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var paper domain.Paper
	if err := tx.GetContext(ctx, &paper, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: paper with id '%s'", op, apperrors.ErrNotFound, paperID)
		}

		return nil, fmt.Errorf("%s: failed to get paper with lock: %w", op, err)
	}

	return &paper, nil
}

func (r *PaperRepository) GetAssignedReviewerIDs(ctx context.Context, ext sqlx.ExtContext, paperID string) ([]string, error) {
	const op = "internal.repository.postgres.GetAssignedReviewerIDs"

	query, args, err := r.sq.Select("reviewer_id").
		From("assignments").
		Where(sq.Eq{"paper_id": paperID}).
		OrderBy("reviewer_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var reviewerIDs []string
	if err := sqlx.SelectContext(ctx, ext, &reviewerIDs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select assignments: %w", op, err)
	}

	return reviewerIDs, nil
}

func (r *PaperRepository) UpdatePaperStatus(ctx context.Context, tx *sqlx.Tx, paperID string, status api.PaperStatus, phase api.LifecyclePhase, needsManualCheck bool, decidedAt time.Time) error {
	const op = "internal.repository.postgres.UpdatePaperStatus"

	updateBuilder := r.sq.Update("papers").
		Set("status", status).
		Set("phase", phase).
		Set("needs_manual_check", needsManualCheck).
		Where(sq.Eq{"id": paperID})

	if status.Terminal() {
		updateBuilder = updateBuilder.Set("decided_at", decidedAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: paper with id '%s'", op, apperrors.ErrNotFound, paperID)
	}

	return nil
}

func (r *PaperRepository) AdvancePhase(ctx context.Context, tx *sqlx.Tx, paperID string, phase api.LifecyclePhase, phaseStartedAt time.Time) error {
	const op = "internal.repository.postgres.AdvancePhase"

	query, args, err := r.sq.Update("papers").
		Set("phase", phase).
		Set("phase_started_at", phaseStartedAt).
		Where(sq.Eq{"id": paperID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: paper with id '%s'", op, apperrors.ErrNotFound, paperID)
	}

	return nil
}

func (r *PaperRepository) GetReviewAssignments(ctx context.Context, reviewerID string) ([]domain.Paper, error) {
	const op = "internal.repository.postgres.GetReviewAssignments"
	log := r.log.With(slog.String("op", op), slog.String("reviewer_id", reviewerID))

	query, args, err := r.sq.Select(
		"p.id", "p.title", "p.author_id", "p.status",
	).From("papers p").
		Join("assignments a ON p.id = a.paper_id").
		Where(sq.Eq{"a.reviewer_id": reviewerID}).
		Where(sq.Eq{"p.status": []api.PaperStatus{api.PaperStatusPENDING, api.PaperStatusUNDERREVIEW, api.PaperStatusREVISIONREQUESTED}}).
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var papers []domain.Paper
	if err := r.db.SelectContext(ctx, &papers, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("no review assignments found")
			return []domain.Paper{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return papers, nil
}

func (r *PaperRepository) GetReviewerStats(ctx context.Context) ([]domain.Stats, error) {
	const op = "internal.repository.postgres.GetReviewerStats"

	query, args, err := r.sq.Select(
		"rv.id as reviewer_id",
		"rv.full_name",
		"COUNT(DISTINCT d.id) as submitted_verdicts",
		"COUNT(DISTINCT CASE WHEN p.status IN ('PENDING', 'UNDER_REVIEW') THEN a.paper_id END) as pending_reviews",
	).
		From("reviewers rv").
		LeftJoin("assignments a ON rv.id = a.reviewer_id").
		LeftJoin("papers p ON a.paper_id = p.id").
		LeftJoin("decisions d ON rv.id = d.reviewer_id").
		GroupBy("rv.id", "rv.full_name").
		OrderBy("rv.full_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var stats []domain.Stats
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Stats{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return stats, nil
}
