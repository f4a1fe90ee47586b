package domain

import (
	"time"

	"github.com/sempozyum/paper-review-service/pkg/api"
)

type Reviewer struct {
	ID       string `db:"id"`
	FullName string `db:"full_name"`
	IsActive bool   `db:"is_active"`
}

type Paper struct {
	ID               string             `db:"id"`
	Title            string             `db:"title"`
	AuthorID         string             `db:"author_id"`
	Status           api.PaperStatus    `db:"status"`
	Phase            api.LifecyclePhase `db:"phase"`
	NeedsManualCheck bool               `db:"needs_manual_check"`
	PhaseStartedAt   time.Time          `db:"phase_started_at"`
	CreatedAt        time.Time          `db:"created_at"`
	DecidedAt        *time.Time         `db:"decided_at"`
	ReviewerIDs      []string
}

// Decision is one row of the append-only decision log. Rows are never
// updated or deleted; the latest row per (paper, reviewer) within the
// current phase window is the only one that participates in aggregation.
type Decision struct {
	ID          int64       `db:"id"`
	PaperID     string      `db:"paper_id"`
	ReviewerID  string      `db:"reviewer_id"`
	Verdict     api.Verdict `db:"verdict"`
	Evaluation  []byte      `db:"evaluation"`
	SubmittedAt time.Time   `db:"submitted_at"`
}

// AggregationResult is the projector's output. It is recomputed on every
// submission and never persisted.
type AggregationResult struct {
	LatestByReviewer map[string]api.Verdict
	QuorumMet        bool
}

type Stats struct {
	ReviewerID        string `db:"reviewer_id"`
	FullName          string `db:"full_name"`
	SubmittedVerdicts int    `db:"submitted_verdicts"`
	PendingReviews    int    `db:"pending_reviews"`
}
