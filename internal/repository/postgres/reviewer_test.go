//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewerRepository_Flow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	truncateTables(t, testDB)
	repo := NewReviewerRepository(testDB, logger)
	ctx := context.Background()

	err := repo.RegisterReviewers(ctx, []domain.Reviewer{
		{ID: "rev-a", FullName: "Alice Reviewer", IsActive: true},
		{ID: "rev-b", FullName: "Bob Reviewer", IsActive: false},
	})
	require.NoError(t, err)

	err = repo.RegisterReviewers(ctx, []domain.Reviewer{
		{ID: "rev-a", FullName: "Alice Again", IsActive: true},
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	activeIDs, err := repo.GetActiveReviewerIDs(ctx, []string{"rev-a", "rev-b", "rev-ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rev-a"}, activeIDs)

	reviewer, err := repo.SetIsActive(ctx, "rev-b", true)
	require.NoError(t, err)
	assert.True(t, reviewer.IsActive)

	activeIDs, err = repo.GetActiveReviewerIDs(ctx, []string{"rev-a", "rev-b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rev-a", "rev-b"}, activeIDs)

	_, err = repo.SetIsActive(ctx, "rev-ghost", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
