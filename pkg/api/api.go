// Package api defines the types exchanged over the HTTP boundary and the
// closed enums for paper status, review verdict and lifecycle phase.
// Raw strings are decoded into these types exactly once, at the boundary;
// internal logic never compares on string case-variants.
package api

import (
	"encoding/json"
	"time"
)

// PaperStatus is the derived lifecycle status of a paper. It is the only
// field the decision core ever writes.
type PaperStatus string

const (
	PaperStatusPENDING           PaperStatus = "PENDING"
	PaperStatusUNDERREVIEW       PaperStatus = "UNDER_REVIEW"
	PaperStatusACCEPTED          PaperStatus = "ACCEPTED"
	PaperStatusREJECTED          PaperStatus = "REJECTED"
	PaperStatusREVISIONREQUESTED PaperStatus = "REVISION_REQUESTED"
)

// Terminal reports whether the paper has reached a final decision and can
// take no further verdicts.
func (s PaperStatus) Terminal() bool {
	return s == PaperStatusACCEPTED || s == PaperStatusREJECTED
}

// Verdict is a reviewer's single submitted judgment for one review round.
type Verdict string

const (
	VerdictACCEPT Verdict = "ACCEPT"
	VerdictREJECT Verdict = "REJECT"
	VerdictREVISE Verdict = "REVISE"
)

// Valid reports whether the verdict is one of the known values.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictACCEPT, VerdictREJECT, VerdictREVISE:
		return true
	}

	return false
}

// LifecyclePhase marks which review round a paper is in. The decision core
// reads it to scope aggregation and moves it to REVISION_PENDING when a round
// resolves to REVISION_REQUESTED; advancing to POST_REVISION_ROUND is an
// editorial action.
type LifecyclePhase string

const (
	PhaseFIRSTROUND        LifecyclePhase = "FIRST_ROUND"
	PhaseREVISIONPENDING   LifecyclePhase = "REVISION_PENDING"
	PhasePOSTREVISIONROUND LifecyclePhase = "POST_REVISION_ROUND"
)

type Reviewer struct {
	ReviewerID string `json:"reviewer_id"`
	FullName   string `json:"full_name"`
	IsActive   bool   `json:"is_active"`
}

type Paper struct {
	PaperID           string         `json:"paper_id"`
	Title             string         `json:"title"`
	AuthorID          string         `json:"author_id"`
	Status            PaperStatus    `json:"status"`
	Phase             LifecyclePhase `json:"phase"`
	NeedsManualCheck  bool           `json:"needs_manual_check"`
	AssignedReviewers []string       `json:"assigned_reviewers"`
	PhaseStartedAt    *time.Time     `json:"phase_started_at,omitempty"`
	CreatedAt         *time.Time     `json:"created_at,omitempty"`
	DecidedAt         *time.Time     `json:"decided_at,omitempty"`
}

type Decision struct {
	DecisionID  int64           `json:"decision_id"`
	PaperID     string          `json:"paper_id"`
	ReviewerID  string          `json:"reviewer_id"`
	Verdict     Verdict         `json:"verdict"`
	Evaluation  json.RawMessage `json:"evaluation,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type SubmitDecisionResponse struct {
	DecisionID    int64        `json:"decision_id"`
	StatusChanged bool         `json:"status_changed"`
	NewStatus     *PaperStatus `json:"new_status,omitempty"`
}

type AggregationResponse struct {
	PaperID          string             `json:"paper_id"`
	LatestByReviewer map[string]Verdict `json:"latest_by_reviewer"`
	QuorumMet        bool               `json:"quorum_met"`
	CurrentStatus    PaperStatus        `json:"current_status"`
}

type DecisionHistoryResponse struct {
	PaperID   string     `json:"paper_id"`
	Decisions []Decision `json:"decisions"`
}

type AdvancePhaseResponse struct {
	PaperID        string         `json:"paper_id"`
	Phase          LifecyclePhase `json:"phase"`
	PhaseStartedAt time.Time      `json:"phase_started_at"`
}

type PaperShort struct {
	PaperID  string      `json:"paper_id"`
	Title    string      `json:"title"`
	AuthorID string      `json:"author_id"`
	Status   PaperStatus `json:"status"`
}

type GetReviewResponse struct {
	ReviewerID string       `json:"reviewer_id"`
	Papers     []PaperShort `json:"papers"`
}

type ReviewerStats struct {
	ReviewerID        string `json:"reviewer_id"`
	FullName          string `json:"full_name"`
	SubmittedVerdicts int    `json:"submitted_verdicts"`
	PendingReviews    int    `json:"pending_reviews"`
}

type StatsResponse struct {
	ReviewerStats []ReviewerStats `json:"reviewer_stats"`
}

// ErrorResponseErrorCode is a machine-readable error discriminator.
type ErrorResponseErrorCode string

const (
	NOTFOUND        ErrorResponseErrorCode = "NOT_FOUND"
	PAPEREXISTS     ErrorResponseErrorCode = "PAPER_EXISTS"
	REVIEWEREXISTS  ErrorResponseErrorCode = "REVIEWER_EXISTS"
	NOTASSIGNED     ErrorResponseErrorCode = "NOT_ASSIGNED"
	INVALIDVERDICT  ErrorResponseErrorCode = "INVALID_VERDICT"
	PAPERFINALIZED  ErrorResponseErrorCode = "PAPER_FINALIZED"
	REVISIONPENDING ErrorResponseErrorCode = "REVISION_PENDING"
	PHASENOTREADY   ErrorResponseErrorCode = "PHASE_NOT_ADVANCEABLE"
	NOREVIEWERS     ErrorResponseErrorCode = "NO_REVIEWERS"
)

type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}
