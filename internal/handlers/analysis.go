package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/models"
	pkghttp "github.com/jobprep/jobprep/pkg/http"
)

// AnalysisServiceInterface defines the interface for resume analysis logic
type AnalysisServiceInterface interface {
	AnalyzeResume(ctx context.Context, userID, resumeText, jobDescription string) (*models.ResumeAnalysis, error)
	History(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error)
	SuggestRoles(ctx context.Context, userID, country string, limit int) ([]models.RoleSuggestion, error)
	BuildHeatmap(ctx context.Context, userID string, skills, locations []string) (*models.Heatmap, error)
}

// AnalysisHandler handles resume analysis HTTP requests
type AnalysisHandler struct {
	service AnalysisServiceInterface
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(service AnalysisServiceInterface) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// AnalyzeResumeRequest represents the request body for resume analysis
type AnalyzeResumeRequest struct {
	ResumeText     string `json:"resume_text" validate:"required,min=1"`
	JobDescription string `json:"job_description" validate:"required,min=1"`
}

// AnalysisResponse represents a resume analysis in the HTTP response
type AnalysisResponse struct {
	ATSScore        int                    `json:"ats_score"`
	MatchedKeywords []string               `json:"matched_keywords"`
	MissingKeywords []string               `json:"missing_keywords"`
	SpellingErrors  []string               `json:"spelling_errors"`
	Improvements    []string               `json:"improvements"`
	KeywordDensity  map[string]float64     `json:"keyword_density"`
	Sections        models.SectionAnalysis `json:"section_analysis"`
}

// SuggestRolesRequest represents the request body for role suggestions
type SuggestRolesRequest struct {
	Country string `json:"country,omitempty"`
	Limit   int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=50"`
}

// HeatmapRequest represents the request body for the openings heatmap
type HeatmapRequest struct {
	Skills    []string `json:"skills,omitempty"`
	Locations []string `json:"locations,omitempty"`
}

// Analyze scores a resume against a job description
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req AnalyzeResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	analysis, err := h.service.AnalyzeResume(r.Context(), claims.UserID, req.ResumeText, req.JobDescription)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Resume text and job description are required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AnalysisResponse{
		ATSScore:        analysis.ATSScore,
		MatchedKeywords: analysis.MatchedKeywords,
		MissingKeywords: analysis.MissingKeywords,
		SpellingErrors:  analysis.SpellingErrors,
		Improvements:    analysis.Improvements,
		KeywordDensity:  analysis.KeywordDensity,
		Sections:        analysis.Sections,
	})
}

// History returns recent analyses, newest first
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	analyses, err := h.service.History(r.Context(), claims.UserID, limit)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// SuggestRoles returns catalog roles scored against the profile
func (h *AnalysisHandler) SuggestRoles(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req SuggestRolesRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
		if err := ValidateRequest(req); err != nil {
			pkghttp.WriteBadRequest(w, err.Error())
			return
		}
	}

	roles, err := h.service.SuggestRoles(r.Context(), claims.UserID, req.Country, req.Limit)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Complete your profile to get role suggestions")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"roles":       roles,
		"total_found": len(roles),
	})
}

// Heatmap returns the openings heatmap for the given or profile skills
func (h *AnalysisHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req HeatmapRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
	}

	heatmap, err := h.service.BuildHeatmap(r.Context(), claims.UserID, req.Skills, req.Locations)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, heatmap)
}
