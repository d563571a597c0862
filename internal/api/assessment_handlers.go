package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
	"github.com/traitforge/disc-engine/internal/report"
	"github.com/traitforge/disc-engine/internal/scoring"
)

// Assessment result handlers

func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req models.SaveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Results are always written against the authenticated user.
	req.UserID = user.ID

	if !req.Scores.InBounds() {
		respondError(w, http.StatusBadRequest, "validation_error", "scores outside [0, 100]")
		return
	}
	for id, value := range req.Answers {
		if !s.catalog.Has(id) {
			respondError(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("unknown question id %d", id))
			return
		}
		if value < models.RatingMin || value > models.RatingMax {
			respondError(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("answer for question %d outside [%d, %d]", id, models.RatingMin, models.RatingMax))
			return
		}
	}

	result, err := s.results.SaveResult(r.Context(), req)
	if err != nil {
		slog.Error("failed to save result", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save result")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	result, err := s.repo.LatestResultByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to get latest result", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get result")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "not_found", "no results for this user")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	results, err := s.repo.ListResultsByUser(r.Context(), user.ID, limit, offset)
	if err != nil {
		slog.Error("failed to list results", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list results")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// ownedResult loads a result by id and enforces ownership.
func (s *Server) ownedResult(w http.ResponseWriter, r *http.Request) *models.AssessmentResult {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	result, err := s.repo.GetResult(r.Context(), id)
	if err != nil {
		slog.Error("failed to get result", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get result")
		return nil
	}
	if result == nil || result.UserID != user.ID {
		respondError(w, http.StatusNotFound, "not_found", "result not found")
		return nil
	}
	return result
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result := s.ownedResult(w, r)
	if result == nil {
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Insight generation

func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	result := s.ownedResult(w, r)
	if result == nil {
		return
	}
	user := UserFromContext(r.Context())

	var req models.GenerateInsightsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}
	if req.Locale == "" {
		req.Locale = "en"
	}

	userContext := fmt.Sprintf("Name: %s.", user.Name)

	analysis, err := s.orchestrator.GenerateFullReport(r.Context(), result.Scores, userContext, req.Mode, req.Locale)
	if err != nil {
		switch {
		case apperrors.IsQuotaExceeded(err):
			// Distinct code so the UI can show an upgrade path instead of
			// a generic failure.
			respondError(w, http.StatusTooManyRequests, "quota_exceeded", "generation quota exceeded")
		case apperrors.IsMalformedResponse(err):
			slog.Error("provider returned malformed analysis", "error", err, "result_id", result.ID)
			respondError(w, http.StatusBadGateway, "malformed_response", "provider returned an unusable analysis")
		default:
			slog.Error("insight generation failed", "error", err, "result_id", result.ID)
			respondError(w, http.StatusBadGateway, "generation_failed", "insight generation failed")
		}
		return
	}

	if err := s.repo.UpdateResultAnalysis(r.Context(), result.ID, analysis); err != nil {
		slog.Error("failed to store analysis", "error", err, "result_id", result.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store analysis")
		return
	}

	result.Analysis = analysis
	respondJSON(w, http.StatusOK, result)
}

// Report download

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	result := s.ownedResult(w, r)
	if result == nil {
		return
	}
	user := UserFromContext(r.Context())

	data := report.Data{
		UserName:    user.Name,
		Scores:      result.Scores,
		Analysis:    result.Analysis,
		GeneratedAt: result.Timestamp,
		Development: developmentPlan(result.Scores),
	}
	if result.Analysis != nil {
		data.Narrative = result.Analysis.Summary
	}

	doc, err := s.renderer.Render(data)
	if err != nil {
		slog.Error("report rendering failed", "error", err, "result_id", result.ID)
		respondError(w, http.StatusInternalServerError, "render_failed", "failed to render report")
		return
	}

	filename := report.Filename(user.Name)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Error("failed to write report", "error", err, "result_id", result.ID)
	}
}

// developmentPlan derives a default development table from the weakest and
// strongest traits when no bespoke plan exists.
func developmentPlan(scores models.DiscScore) []report.DevelopmentItem {
	dominant := scoring.Dominant(scores)

	weakest := models.Categories[0]
	weakestVal := scores.Get(weakest)
	for _, c := range models.Categories[1:] {
		if v := scores.Get(c); v < weakestVal {
			weakest, weakestVal = c, v
		}
	}

	plans := map[models.Category]report.DevelopmentItem{
		models.CategoryDominance: {
			Area:    "Assertiveness",
			Action:  "Volunteer to lead one decision in the next team meeting",
			Horizon: "30 days",
		},
		models.CategoryInfluence: {
			Area:    "Visibility",
			Action:  "Present one piece of work to a wider audience each month",
			Horizon: "60 days",
		},
		models.CategorySteadiness: {
			Area:    "Consistency",
			Action:  "Block recurring focus time and defend it for a full cycle",
			Horizon: "30 days",
		},
		models.CategoryCompliance: {
			Area:    "Rigor",
			Action:  "Add a written checklist to one recurring deliverable",
			Horizon: "30 days",
		},
	}

	items := []report.DevelopmentItem{plans[weakest]}
	if weakest != dominant {
		strength := plans[dominant]
		strength.Area = strength.Area + " (leverage)"
		items = append(items, strength)
	}
	return items
}
