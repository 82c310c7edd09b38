package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/services"
	pkghttp "github.com/jobprep/jobprep/pkg/http"
)

// ProfileServiceInterface defines the interface for profile business logic
type ProfileServiceInterface interface {
	Get(ctx context.Context, accountID string) (*models.Profile, error)
	Update(ctx context.Context, accountID, email string, input services.ProfileInput) (*models.Profile, error)
	IsComplete(ctx context.Context, accountID string) (bool, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	FullName           string   `json:"full_name" validate:"required,min=1,max=200"`
	Skills             []string `json:"skills" validate:"required,min=1"`
	PreferredLocations []string `json:"preferred_locations" validate:"required,min=1"`
	ResumeURL          *string  `json:"resume_url,omitempty"`
	Certifications     []string `json:"certifications,omitempty"`
	Achievements       *string  `json:"achievements,omitempty"`
	MobileNumber       *string  `json:"mobile_number,omitempty"`
}

// ProfileResponse represents a profile in the HTTP response. Enrollment
// exposure is limited to the enabled flag; the secret never leaves storage.
type ProfileResponse struct {
	ID                 string   `json:"id"`
	Email              string   `json:"email"`
	FullName           string   `json:"full_name"`
	Skills             []string `json:"skills"`
	PreferredLocations []string `json:"preferred_locations"`
	ResumeURL          *string  `json:"resume_url,omitempty"`
	Certifications     []string `json:"certifications"`
	Achievements       *string  `json:"achievements,omitempty"`
	MobileNumber       *string  `json:"mobile_number,omitempty"`
	TwoFactorEnabled   bool     `json:"two_factor_enabled"`
	Complete           bool     `json:"complete"`
	UpdatedAt          string   `json:"updated_at"`
}

func profileToResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                 p.ID,
		Email:              p.Email,
		FullName:           p.FullName,
		Skills:             p.Skills,
		PreferredLocations: p.PreferredLocations,
		ResumeURL:          p.ResumeURL,
		Certifications:     p.Certifications,
		Achievements:       p.Achievements,
		MobileNumber:       p.MobileNumber,
		TwoFactorEnabled:   p.TwoFactorEnabled,
		Complete:           p.IsComplete(),
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}

// Get returns the authenticated user's profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Profile not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profileToResponse(profile))
}

// Update writes the user-editable profile fields
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	profile, err := h.service.Update(r.Context(), claims.UserID, claims.Email, services.ProfileInput{
		FullName:           req.FullName,
		Skills:             req.Skills,
		PreferredLocations: req.PreferredLocations,
		ResumeURL:          req.ResumeURL,
		Certifications:     req.Certifications,
		Achievements:       req.Achievements,
		MobileNumber:       req.MobileNumber,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profileToResponse(profile))
}

// Completeness reports whether the profile can drive role suggestions
func (h *ProfileHandler) Completeness(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	complete, err := h.service.IsComplete(r.Context(), claims.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"complete": complete})
}
