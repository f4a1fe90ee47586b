package http

import "encoding/json"

type registerReviewersRequest struct {
	Reviewers []struct {
		ReviewerID string `json:"reviewer_id" validate:"required,custom_id,min=1,max=100"`
		FullName   string `json:"full_name" validate:"required,min=2,max=100"`
		IsActive   bool   `json:"is_active"`
	} `json:"reviewers" validate:"required,min=1,dive"`
}

type setReviewerActiveRequest struct {
	ReviewerID string `json:"reviewer_id" validate:"required,custom_id,min=1,max=100"`
	IsActive   bool   `json:"is_active"`
}

type createPaperRequest struct {
	PaperID  string `json:"paper_id" validate:"required,custom_id,min=1,max=100"`
	Title    string `json:"title" validate:"required,min=5,max=255"`
	AuthorID string `json:"author_id" validate:"required,custom_id,min=1,max=100"`
}

type assignReviewersRequest struct {
	PaperID     string   `json:"paper_id" validate:"required,custom_id,min=1,max=100"`
	ReviewerIDs []string `json:"reviewer_ids" validate:"required,min=1,dive,custom_id,min=1,max=100"`
}

type advancePhaseRequest struct {
	PaperID string `json:"paper_id" validate:"required,custom_id,min=1,max=100"`
}

type submitDecisionRequest struct {
	PaperID    string          `json:"paper_id" validate:"required,custom_id,min=1,max=100"`
	ReviewerID string          `json:"reviewer_id" validate:"required,custom_id,min=1,max=100"`
	Verdict    string          `json:"verdict" validate:"required,oneof=ACCEPT REJECT REVISE"`
	Evaluation json.RawMessage `json:"evaluation,omitempty"`
}
