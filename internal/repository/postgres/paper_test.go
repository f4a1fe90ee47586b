//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaperTest(t *testing.T) {
	t.Helper()
	truncateTables(t, testDB)
	reviewerRepo := NewReviewerRepository(testDB, logger)
	err := reviewerRepo.RegisterReviewers(context.Background(), []domain.Reviewer{
		{ID: "rev-a", FullName: "Alice Reviewer", IsActive: true},
		{ID: "rev-b", FullName: "Bob Reviewer", IsActive: true},
		{ID: "rev-c", FullName: "Carol Reviewer", IsActive: true},
		{ID: "rev-idle", FullName: "Idle Reviewer", IsActive: false},
	})
	require.NoError(t, err)
}

func createTestPaper(t *testing.T, repo *PaperRepository, paperID string) *domain.Paper {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	paper := &domain.Paper{
		ID:             paperID,
		Title:          "An integration-tested contribution",
		AuthorID:       "author-1",
		Status:         api.PaperStatusPENDING,
		Phase:          api.PhaseFIRSTROUND,
		PhaseStartedAt: now,
		CreatedAt:      now,
	}

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.CreatePaper(context.Background(), tx, paper))
	require.NoError(t, tx.Commit())

	return paper
}

func TestPaperRepository_Flow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	setupPaperTest(t)
	repo := NewPaperRepository(testDB, logger)
	ctx := context.Background()

	created := createTestPaper(t, repo, "paper-1")

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	err = repo.CreatePaper(ctx, tx, created)
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NoError(t, tx.Rollback())

	tx, err = testDB.Beginx()
	require.NoError(t, err)
	err = repo.AssignReviewers(ctx, tx, "paper-1", []string{"rev-a", "rev-b"})
	require.NoError(t, err)
	// Re-assigning an already assigned reviewer must be a no-op.
	err = repo.AssignReviewers(ctx, tx, "paper-1", []string{"rev-b", "rev-c"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	paper, err := repo.GetPaperByIDWithReviewers(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, created.Title, paper.Title)
	assert.ElementsMatch(t, []string{"rev-a", "rev-b", "rev-c"}, paper.ReviewerIDs)
	assert.Equal(t, api.PaperStatusPENDING, paper.Status)
	assert.Nil(t, paper.DecidedAt)

	tx, err = testDB.Beginx()
	require.NoError(t, err)
	locked, err := repo.GetPaperByIDWithLock(ctx, tx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, "paper-1", locked.ID)

	err = repo.UpdatePaperStatus(ctx, tx, "paper-1", api.PaperStatusUNDERREVIEW, locked.Phase, false, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	paper, err = repo.GetPaperByID(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, api.PaperStatusUNDERREVIEW, paper.Status)
	assert.Nil(t, paper.DecidedAt)

	tx, err = testDB.Beginx()
	require.NoError(t, err)
	err = repo.UpdatePaperStatus(ctx, tx, "paper-1", api.PaperStatusACCEPTED, paper.Phase, false, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	paper, err = repo.GetPaperByID(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, api.PaperStatusACCEPTED, paper.Status)
	require.NotNil(t, paper.DecidedAt)

	_, err = repo.GetPaperByID(ctx, "paper-ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPaperRepository_AdvancePhase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	setupPaperTest(t)
	repo := NewPaperRepository(testDB, logger)
	ctx := context.Background()

	created := createTestPaper(t, repo, "paper-phase")

	newStart := time.Now().UTC().Truncate(time.Microsecond)
	tx, err := testDB.Beginx()
	require.NoError(t, err)
	err = repo.AdvancePhase(ctx, tx, "paper-phase", api.PhasePOSTREVISIONROUND, newStart)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	paper, err := repo.GetPaperByID(ctx, "paper-phase")
	require.NoError(t, err)
	assert.Equal(t, api.PhasePOSTREVISIONROUND, paper.Phase)
	assert.True(t, paper.PhaseStartedAt.After(created.PhaseStartedAt) || paper.PhaseStartedAt.Equal(newStart))

	tx, err = testDB.Beginx()
	require.NoError(t, err)
	err = repo.AdvancePhase(ctx, tx, "paper-ghost", api.PhasePOSTREVISIONROUND, newStart)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, tx.Rollback())
}

func TestPaperRepository_GetReviewAssignments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	setupPaperTest(t)
	repo := NewPaperRepository(testDB, logger)
	ctx := context.Background()

	createTestPaper(t, repo, "paper-open")
	createTestPaper(t, repo, "paper-done")

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.AssignReviewers(ctx, tx, "paper-open", []string{"rev-a"}))
	require.NoError(t, repo.AssignReviewers(ctx, tx, "paper-done", []string{"rev-a"}))
	require.NoError(t, repo.UpdatePaperStatus(ctx, tx, "paper-done", api.PaperStatusREJECTED, api.PhaseFIRSTROUND, false, time.Now().UTC()))
	require.NoError(t, tx.Commit())

	papers, err := repo.GetReviewAssignments(ctx, "rev-a")
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "paper-open", papers[0].ID)

	papers, err = repo.GetReviewAssignments(ctx, "rev-b")
	require.NoError(t, err)
	assert.Empty(t, papers)
}
