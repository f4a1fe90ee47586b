// Package review implements the decision aggregation core: projecting the
// append-only decision log into per-reviewer latest verdicts and resolving
// those verdicts into a paper lifecycle status. Both functions are pure; all
// persistence and locking happens in the service layer around them.
package review

import (
	"time"

	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
)

// Project computes each reviewer's latest verdict within the current phase
// window and whether the full quorum of assigned reviewers has voted.
// Decisions submitted before phaseStartedAt belong to a previous round and
// are ignored, so a reviewer who never re-votes after a revision keeps the
// quorum unmet.
//
// The decisions slice is expected in (submitted_at, id) ascending order;
// equal timestamps therefore resolve to the later insert.
func Project(decisions []domain.Decision, assignedReviewers []string, phaseStartedAt time.Time) domain.AggregationResult {
	latest := make(map[string]domain.Decision)

	for _, d := range decisions {
		if d.SubmittedAt.Before(phaseStartedAt) {
			continue
		}

		if cur, ok := latest[d.ReviewerID]; ok && d.SubmittedAt.Before(cur.SubmittedAt) {
			continue
		}

		latest[d.ReviewerID] = d
	}

	result := domain.AggregationResult{
		LatestByReviewer: make(map[string]api.Verdict, len(latest)),
		QuorumMet:        true,
	}

	for reviewerID, d := range latest {
		result.LatestByReviewer[reviewerID] = d.Verdict
	}

	for _, reviewerID := range assignedReviewers {
		if _, ok := result.LatestByReviewer[reviewerID]; !ok {
			result.QuorumMet = false
			break
		}
	}

	return result
}
