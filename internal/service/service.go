package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/sempozyum/paper-review-service/pkg/logger/sl"
)

type Transactor interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

func transaction(ctx context.Context, db Transactor, log *slog.Logger, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("failed to rollback transaction", sl.Err(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

func toAPIPaper(paper *domain.Paper) *api.Paper {
	return &api.Paper{
		PaperID:           paper.ID,
		Title:             paper.Title,
		AuthorID:          paper.AuthorID,
		Status:            paper.Status,
		Phase:             paper.Phase,
		NeedsManualCheck:  paper.NeedsManualCheck,
		AssignedReviewers: paper.ReviewerIDs,
		PhaseStartedAt:    &paper.PhaseStartedAt,
		CreatedAt:         &paper.CreatedAt,
		DecidedAt:         paper.DecidedAt,
	}
}
