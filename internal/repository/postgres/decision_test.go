//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendTestDecision(t *testing.T, repo *DecisionLogRepository, decision *domain.Decision) {
	t.Helper()

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.AppendDecision(context.Background(), tx, decision))
	require.NoError(t, tx.Commit())
}

func TestDecisionLogRepository_Flow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	setupPaperTest(t)
	paperRepo := NewPaperRepository(testDB, logger)
	repo := NewDecisionLogRepository(testDB, logger)
	ctx := context.Background()

	paper := createTestPaper(t, paperRepo, "paper-log")

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, paperRepo.AssignReviewers(ctx, tx, "paper-log", []string{"rev-a", "rev-b"}))
	require.NoError(t, tx.Commit())

	first := &domain.Decision{
		PaperID:     "paper-log",
		ReviewerID:  "rev-a",
		Verdict:     api.VerdictREVISE,
		Evaluation:  json.RawMessage(`{"comment":"needs a stronger evaluation section"}`),
		SubmittedAt: paper.PhaseStartedAt.Add(time.Hour),
	}
	appendTestDecision(t, repo, first)
	assert.NotZero(t, first.ID)

	second := &domain.Decision{
		PaperID:     "paper-log",
		ReviewerID:  "rev-a",
		Verdict:     api.VerdictACCEPT,
		SubmittedAt: paper.PhaseStartedAt.Add(2 * time.Hour),
	}
	appendTestDecision(t, repo, second)
	assert.Greater(t, second.ID, first.ID)

	// Superseded verdicts stay in the log.
	history, err := repo.ListDecisionHistory(ctx, "paper-log")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, api.VerdictREVISE, history[0].Verdict)
	assert.Equal(t, api.VerdictACCEPT, history[1].Verdict)
	assert.JSONEq(t, `{"comment":"needs a stronger evaluation section"}`, string(history[0].Evaluation))

	decisions, err := repo.ListDecisionsSince(ctx, testDB, "paper-log", paper.PhaseStartedAt)
	require.NoError(t, err)
	assert.Len(t, decisions, 2)

	// Moving the window start past the first verdict drops it from the view
	// without touching the stored rows.
	decisions, err = repo.ListDecisionsSince(ctx, testDB, "paper-log", paper.PhaseStartedAt.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, api.VerdictACCEPT, decisions[0].Verdict)

	ghost := &domain.Decision{
		PaperID:     "paper-ghost",
		ReviewerID:  "rev-a",
		Verdict:     api.VerdictACCEPT,
		SubmittedAt: time.Now().UTC(),
	}
	tx, err = testDB.Beginx()
	require.NoError(t, err)
	err = repo.AppendDecision(ctx, tx, ghost)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, tx.Rollback())
}

func TestPaperRepository_GetReviewerStats(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	setupPaperTest(t)
	paperRepo := NewPaperRepository(testDB, logger)
	decisionRepo := NewDecisionLogRepository(testDB, logger)
	ctx := context.Background()

	paper := createTestPaper(t, paperRepo, "paper-stats")

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, paperRepo.AssignReviewers(ctx, tx, "paper-stats", []string{"rev-a", "rev-b"}))
	require.NoError(t, tx.Commit())

	appendTestDecision(t, decisionRepo, &domain.Decision{
		PaperID:     "paper-stats",
		ReviewerID:  "rev-a",
		Verdict:     api.VerdictACCEPT,
		SubmittedAt: paper.PhaseStartedAt.Add(time.Hour),
	})

	stats, err := paperRepo.GetReviewerStats(ctx)
	require.NoError(t, err)

	byID := make(map[string]domain.Stats, len(stats))
	for _, stat := range stats {
		byID[stat.ReviewerID] = stat
	}

	require.Contains(t, byID, "rev-a")
	assert.Equal(t, 1, byID["rev-a"].SubmittedVerdicts)
	assert.Equal(t, 1, byID["rev-a"].PendingReviews)

	require.Contains(t, byID, "rev-b")
	assert.Equal(t, 0, byID["rev-b"].SubmittedVerdicts)
	assert.Equal(t, 1, byID["rev-b"].PendingReviews)

	require.Contains(t, byID, "rev-idle")
	assert.Equal(t, 0, byID["rev-idle"].SubmittedVerdicts)
}
