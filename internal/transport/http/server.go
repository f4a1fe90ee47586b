// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sempozyum/paper-review-service/internal/apperrors"
	"github.com/sempozyum/paper-review-service/internal/service"
	"github.com/sempozyum/paper-review-service/internal/validation"
	"github.com/sempozyum/paper-review-service/pkg/api"
	"github.com/sempozyum/paper-review-service/pkg/logger/sl"
)

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log             *slog.Logger
	reviewerService service.ReviewerService
	paperService    service.PaperService
	decisionService service.DecisionService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	rs service.ReviewerService,
	ps service.PaperService,
	ds service.DecisionService,
) *Server {
	return &Server{
		log:             log,
		reviewerService: rs,
		paperService:    ps,
		decisionService: ds,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/reviewers/add", s.PostReviewersAdd)
	mux.Post("/reviewers/setIsActive", s.PostReviewersSetIsActive)
	mux.Get("/reviewers/getReview", s.GetReviewersGetReview)

	mux.Post("/papers/create", s.PostPapersCreate)
	mux.Post("/papers/assignReviewers", s.PostPapersAssignReviewers)
	mux.Post("/papers/advancePhase", s.PostPapersAdvancePhase)
	mux.Get("/papers/get", s.GetPapersGet)

	mux.Post("/decisions/submit", s.PostDecisionsSubmit)
	mux.Get("/decisions/aggregation", s.GetDecisionsAggregation)
	mux.Get("/decisions/history", s.GetDecisionsHistory)

	mux.Get("/stats", s.GetStats)

	return mux
}

func (s *Server) PostReviewersAdd(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostReviewersAdd"

	var req registerReviewersRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	apiReviewers := make([]api.Reviewer, len(req.Reviewers))
	for i, reviewer := range req.Reviewers {
		apiReviewers[i] = api.Reviewer{
			ReviewerID: reviewer.ReviewerID,
			FullName:   reviewer.FullName,
			IsActive:   reviewer.IsActive,
		}
	}

	reviewers, err := s.reviewerService.RegisterReviewers(r.Context(), apiReviewers)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string][]api.Reviewer{"reviewers": reviewers})
}

func (s *Server) PostReviewersSetIsActive(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostReviewersSetIsActive"

	var req setReviewerActiveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	reviewer, err := s.reviewerService.SetIsActive(r.Context(), req.ReviewerID, req.IsActive)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.Reviewer{"reviewer": reviewer})
}

func (s *Server) GetReviewersGetReview(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetReviewersGetReview"

	reviewerID := r.URL.Query().Get("reviewer_id")
	if reviewerID == "" {
		s.respondError(w, http.StatusBadRequest, "reviewer_id query parameter is required")
		return
	}

	resp, err := s.paperService.GetReviewAssignments(r.Context(), reviewerID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) PostPapersCreate(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostPapersCreate"

	var req createPaperRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	paper, err := s.paperService.CreatePaper(r.Context(), req.PaperID, req.Title, req.AuthorID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*api.Paper{"paper": paper})
}

func (s *Server) PostPapersAssignReviewers(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostPapersAssignReviewers"

	var req assignReviewersRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	paper, err := s.paperService.AssignReviewers(r.Context(), req.PaperID, req.ReviewerIDs)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.Paper{"paper": paper})
}

func (s *Server) PostPapersAdvancePhase(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostPapersAdvancePhase"

	var req advancePhaseRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp, err := s.paperService.AdvancePhase(r.Context(), req.PaperID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) GetPapersGet(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetPapersGet"

	paperID := r.URL.Query().Get("paper_id")
	if paperID == "" {
		s.respondError(w, http.StatusBadRequest, "paper_id query parameter is required")
		return
	}

	paper, err := s.paperService.GetPaper(r.Context(), paperID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.Paper{"paper": paper})
}

func (s *Server) PostDecisionsSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostDecisionsSubmit"

	var req submitDecisionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp, err := s.decisionService.SubmitDecision(r.Context(), req.PaperID, req.ReviewerID, api.Verdict(req.Verdict), req.Evaluation)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, resp)
}

func (s *Server) GetDecisionsAggregation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetDecisionsAggregation"

	paperID := r.URL.Query().Get("paper_id")
	if paperID == "" {
		s.respondError(w, http.StatusBadRequest, "paper_id query parameter is required")
		return
	}

	resp, err := s.decisionService.GetAggregation(r.Context(), paperID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) GetDecisionsHistory(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetDecisionsHistory"

	paperID := r.URL.Query().Get("paper_id")
	if paperID == "" {
		s.respondError(w, http.StatusBadRequest, "paper_id query parameter is required")
		return
	}

	resp, err := s.decisionService.GetDecisionHistory(r.Context(), paperID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetStats"

	stats, err := s.decisionService.GetStats(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, stats)
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// respondAPIError formats and sends a structured error response with a machine-readable code.
func (s *Server) respondAPIError(w http.ResponseWriter, code int, apiCode api.ErrorResponseErrorCode, message string) {
	errResp := api.ErrorResponse{
		Error: struct {
			Code    api.ErrorResponseErrorCode `json:"code"`
			Message string                     `json:"message"`
		}{
			Code:    apiCode,
			Message: message,
		},
	}
	s.respond(w, code, errResp)
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var (
		paperExistsErr    *apperrors.PaperAlreadyExistsError
		reviewerExistsErr *apperrors.ReviewerAlreadyExistsError
		validationErr     *validation.ValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrInvalidVerdict):
		s.respondAPIError(w, http.StatusBadRequest, api.INVALIDVERDICT, apperrors.ErrInvalidVerdict.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondAPIError(w, http.StatusNotFound, api.NOTFOUND, "resource not found")
	case errors.As(err, &paperExistsErr):
		s.respondAPIError(w, http.StatusConflict, api.PAPEREXISTS, "paper with this id already exists")
	case errors.As(err, &reviewerExistsErr):
		s.respondAPIError(w, http.StatusConflict, api.REVIEWEREXISTS, "reviewer with this id already exists")
	case errors.Is(err, apperrors.ErrPaperFinalized):
		s.respondAPIError(w, http.StatusConflict, api.PAPERFINALIZED, apperrors.ErrPaperFinalized.Error())
	case errors.Is(err, apperrors.ErrRevisionPending):
		s.respondAPIError(w, http.StatusConflict, api.REVISIONPENDING, apperrors.ErrRevisionPending.Error())
	case errors.Is(err, apperrors.ErrReviewerNotAssigned):
		s.respondAPIError(w, http.StatusConflict, api.NOTASSIGNED, apperrors.ErrReviewerNotAssigned.Error())
	case errors.Is(err, apperrors.ErrPhaseNotAdvanceable):
		s.respondAPIError(w, http.StatusConflict, api.PHASENOTREADY, apperrors.ErrPhaseNotAdvanceable.Error())
	case errors.Is(err, apperrors.ErrNoReviewers):
		s.respondAPIError(w, http.StatusConflict, api.NOREVIEWERS, apperrors.ErrNoReviewers.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
