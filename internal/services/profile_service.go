package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jobprep/jobprep/internal/models"
)

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

// ProfileService manages candidate profiles
type ProfileService struct {
	repo   ProfileRepository
	logger *slog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(repo ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// ProfileInput carries the user-editable profile fields
type ProfileInput struct {
	FullName           string
	Skills             []string
	PreferredLocations []string
	ResumeURL          *string
	Certifications     []string
	Achievements       *string
	MobileNumber       *string
}

// Get returns the profile for the account
func (s *ProfileService) Get(ctx context.Context, accountID string) (*models.Profile, error) {
	profile, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get profile", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return profile, nil
}

// Update writes the user-editable fields. Two-factor enrollment state is
// never touched here; it has its own write path.
func (s *ProfileService) Update(ctx context.Context, accountID, email string, input ProfileInput) (*models.Profile, error) {
	profile := &models.Profile{
		ID:                 accountID,
		Email:              strings.ToLower(strings.TrimSpace(email)),
		FullName:           strings.TrimSpace(input.FullName),
		Skills:             normalizeList(input.Skills),
		PreferredLocations: normalizeList(input.PreferredLocations),
		ResumeURL:          input.ResumeURL,
		Certifications:     normalizeList(input.Certifications),
		Achievements:       input.Achievements,
		MobileNumber:       input.MobileNumber,
	}

	updated, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		s.logger.Error("failed to update profile", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.String("user_id", accountID))
	return updated, nil
}

// IsComplete reports whether the profile has the minimum fields needed to
// drive role suggestions. A missing profile counts as incomplete.
func (s *ProfileService) IsComplete(ctx context.Context, accountID string) (bool, error) {
	profile, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("failed to check profile completeness", slog.String("user_id", accountID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}
	return profile.IsComplete(), nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
