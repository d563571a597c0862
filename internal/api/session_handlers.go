package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
)

// Session handlers drive the per-user assessment state machine held in the
// hub. Every handler resolves the machine through the authenticated user.

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	machine := s.hub.Get(user.ID)
	if machine == nil {
		respondJSON(w, http.StatusOK, models.SessionState{
			Phase:   models.SessionIdle,
			Answers: models.AnswerMap{},
		})
		return
	}

	respondJSON(w, http.StatusOK, machine.State())
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	machine := s.hub.GetOrCreate(user.ID)
	machine.Start()

	respondJSON(w, http.StatusOK, machine.State())
}

func (s *Server) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req models.SaveAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	machine := s.hub.Get(user.ID)
	if machine == nil {
		respondError(w, http.StatusConflict, "no_session", "no assessment in progress")
		return
	}

	if err := machine.SaveAnswer(req.QuestionID, req.Value); err != nil {
		var valErr *apperrors.ValidationError
		if errors.As(err, &valErr) {
			respondError(w, http.StatusBadRequest, "validation_error", valErr.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save answer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"answered": machine.State().AnsweredCount(),
		"total":    s.catalog.Len(),
	})
}

type submitRequest struct {
	// AllowPartial scores whatever answers exist instead of requiring a
	// complete answer set.
	AllowPartial bool `json:"allow_partial,omitempty"`
}

func (s *Server) handleSessionSubmit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req submitRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	machine := s.hub.Get(user.ID)
	if machine == nil {
		respondError(w, http.StatusConflict, "no_session", "no assessment in progress")
		return
	}

	var err error
	if req.AllowPartial {
		_, err = machine.SubmitPartial(r.Context())
	} else {
		_, err = machine.Submit(r.Context())
	}
	if err != nil {
		var valErr *apperrors.ValidationError
		if errors.As(err, &valErr) {
			respondError(w, http.StatusBadRequest, "validation_error", valErr.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to submit assessment")
		return
	}

	respondJSON(w, http.StatusOK, machine.State())
}

func (s *Server) handleSessionHydrate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	machine := s.hub.GetOrCreate(user.ID)

	hydrated := machine.LoadLatest(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"hydrated": hydrated,
		"state":    machine.State(),
	})
}
