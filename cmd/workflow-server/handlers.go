// cmd/workflow-server/handlers.go
package main

import (
	"encoding/json"
	"net/http"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"
	"aid-workflow/internal/workflow/advisory"
	"aid-workflow/internal/workflow/approval"
	"aid-workflow/internal/workflow/disbursement"
	"aid-workflow/internal/workflow/intake"
)

// server is the thin HTTP translation layer. All workflow rules live in
// internal/workflow; handlers only decode, dispatch and encode.
type server struct {
	intake       *intake.Service
	approval     *approval.Service
	disbursement *disbursement.Gate
	advisory     *advisory.Service
	store        *store.ApplicationStore
	logger       logger.Logger
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var input intake.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.intake.Submit(r.Context(), &input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*models.ApplicationRecord{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.Status `json:"status"`
		Note   string        `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.approval.Evaluate(r.Context(), r.PathValue("id"), body.Status, body.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleChairDecision(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Granted bool   `json:"granted"`
		Note    string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.approval.RecordChairDecision(r.Context(), r.PathValue("id"), body.Granted, body.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleDisburse(w http.ResponseWriter, r *http.Request) {
	rec, err := s.disbursement.CreateDisbursement(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.advisory.Annotate(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err})
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.CodeOf(err) {
	case errors.ErrCodeApplicationValidationFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeRecordNotFound, errors.ErrCodeApplicantNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidTransition, errors.ErrCodeDisbursementNotAllowed,
		errors.ErrCodeConcurrentModification:
		status = http.StatusConflict
	case errors.ErrCodeAnalysisUnavailable:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeAnalysisFailed:
		status = http.StatusBadGateway
	}

	var payload interface{}
	var stdErr *errors.StandardError
	if e, ok := err.(*errors.StandardError); ok {
		stdErr = e
	}
	if stdErr != nil {
		payload = stdErr
	} else {
		payload = map[string]string{"error": err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
