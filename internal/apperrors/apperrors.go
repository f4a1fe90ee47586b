package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrPaperFinalized      = errors.New("paper already has a final decision")
	ErrRevisionPending     = errors.New("paper is awaiting resubmission, verdicts are not accepted")
	ErrReviewerNotAssigned = errors.New("reviewer is not assigned to this paper")
	ErrInvalidVerdict      = errors.New("verdict must be one of ACCEPT, REJECT, REVISE")
	ErrNoReviewers         = errors.New("paper has no assigned reviewers")
	ErrPhaseNotAdvanceable = errors.New("paper is not awaiting a revision round")
)

type PaperAlreadyExistsError struct{ PaperID string }

func (e *PaperAlreadyExistsError) Error() string {
	return fmt.Sprintf("paper '%s' already exists", e.PaperID)
}
func (e *PaperAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

type ReviewerAlreadyExistsError struct{ ReviewerID string }

func (e *ReviewerAlreadyExistsError) Error() string {
	return fmt.Sprintf("reviewer '%s' already exists", e.ReviewerID)
}
func (e *ReviewerAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }
