package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobprep/jobprep/internal/models"
)

func TestProfileService_Get_NotFound(t *testing.T) {
	svc := NewProfileService(&MockProfileRepository{}, slog.Default())

	_, err := svc.Get(context.Background(), "user123")
	assert.Equal(t, models.ErrNotFound, err)
}

func TestProfileService_Update_NeverTouchesTwoFactorFields(t *testing.T) {
	var written *models.Profile
	repo := &MockProfileRepository{
		UpsertFunc: func(ctx context.Context, p *models.Profile) (*models.Profile, error) {
			written = p
			return p, nil
		},
	}
	svc := NewProfileService(repo, slog.Default())

	_, err := svc.Update(context.Background(), "user123", "User@Example.com", ProfileInput{
		FullName: "  Test User ",
		Skills:   []string{" React ", "", "Python"},
	})

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", written.Email)
	assert.Equal(t, "Test User", written.FullName)
	assert.Equal(t, []string{"React", "Python"}, written.Skills)
	assert.False(t, written.TwoFactorEnabled)
	assert.Nil(t, written.TwoFactorSecret)
}

func TestProfileService_IsComplete(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		want    bool
	}{
		{
			name: "complete profile",
			profile: &models.Profile{
				FullName:           "Test User",
				Skills:             []string{"React"},
				PreferredLocations: []string{"Seattle"},
			},
			want: true,
		},
		{
			name:    "missing name",
			profile: &models.Profile{Skills: []string{"React"}, PreferredLocations: []string{"Seattle"}},
			want:    false,
		},
		{
			name:    "missing skills",
			profile: &models.Profile{FullName: "Test User", PreferredLocations: []string{"Seattle"}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockProfileRepository{
				GetByAccountIDFunc: func(ctx context.Context, accountID string) (*models.Profile, error) {
					return tt.profile, nil
				},
			}
			svc := NewProfileService(repo, slog.Default())

			complete, err := svc.IsComplete(context.Background(), "user123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, complete)
		})
	}
}

func TestProfileService_IsComplete_MissingProfile(t *testing.T) {
	svc := NewProfileService(&MockProfileRepository{}, slog.Default())

	complete, err := svc.IsComplete(context.Background(), "user123")
	require.NoError(t, err)
	assert.False(t, complete)
}
