package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jobprep/jobprep/internal/handlers"
	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/services"
)

func sampleProfile() *models.Profile {
	return &models.Profile{
		ID:                 "user-1",
		Email:              "user@example.com",
		FullName:           "Jane Doe",
		Skills:             []string{"Go", "React"},
		PreferredLocations: []string{"San Francisco"},
		TwoFactorEnabled:   true,
		UpdatedAt:          time.Now(),
	}
}

func TestGetProfile_Success(t *testing.T) {
	mockService := &handlers.MockProfileService{
		GetFunc: func(ctx context.Context, accountID string) (*models.Profile, error) {
			assert.Equal(t, "user-1", accountID)
			return sampleProfile(), nil
		},
	}

	handler := handlers.NewProfileHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/profile", nil)
	req = handlers.WithAuthContext(req, "user-1", "user@example.com")

	w := httptest.NewRecorder()
	handler.Get(w, req)

	var resp handlers.ProfileResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Jane Doe", resp.FullName)
	assert.True(t, resp.TwoFactorEnabled)
	assert.True(t, resp.Complete)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestGetProfile_NotFound(t *testing.T) {
	mockService := &handlers.MockProfileService{
		GetFunc: func(ctx context.Context, accountID string) (*models.Profile, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewProfileHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/profile", nil)
	req = handlers.WithAuthContext(req, "user-1", "user@example.com")

	w := httptest.NewRecorder()
	handler.Get(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	handler := handlers.NewProfileHandler(&handlers.MockProfileService{})
	req := handlers.NewTestRequest(t, "GET", "/profile", nil)

	w := httptest.NewRecorder()
	handler.Get(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestUpdateProfile_Success(t *testing.T) {
	var gotInput services.ProfileInput
	mockService := &handlers.MockProfileService{
		UpdateFunc: func(ctx context.Context, accountID, email string, input services.ProfileInput) (*models.Profile, error) {
			gotInput = input
			updated := sampleProfile()
			updated.FullName = input.FullName
			return updated, nil
		},
	}

	handler := handlers.NewProfileHandler(mockService)
	req := handlers.NewTestRequest(t, "PUT", "/profile", handlers.UpdateProfileRequest{
		FullName:           "Jane Q. Doe",
		Skills:             []string{"Go", "Kubernetes"},
		PreferredLocations: []string{"Austin"},
	})
	req = handlers.WithAuthContext(req, "user-1", "user@example.com")

	w := httptest.NewRecorder()
	handler.Update(w, req)

	var resp handlers.ProfileResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Jane Q. Doe", resp.FullName)
	assert.Equal(t, []string{"Go", "Kubernetes"}, gotInput.Skills)
}

func TestUpdateProfile_MissingRequiredFields(t *testing.T) {
	called := false
	mockService := &handlers.MockProfileService{
		UpdateFunc: func(ctx context.Context, accountID, email string, input services.ProfileInput) (*models.Profile, error) {
			called = true
			return sampleProfile(), nil
		},
	}

	handler := handlers.NewProfileHandler(mockService)
	req := handlers.NewTestRequest(t, "PUT", "/profile", handlers.UpdateProfileRequest{
		FullName: "Jane Doe",
	})
	req = handlers.WithAuthContext(req, "user-1", "user@example.com")

	w := httptest.NewRecorder()
	handler.Update(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
	assert.False(t, called, "service should not be called on validation failure")
}

func TestProfileCompleteness(t *testing.T) {
	mockService := &handlers.MockProfileService{
		IsCompleteFunc: func(ctx context.Context, accountID string) (bool, error) {
			return true, nil
		},
	}

	handler := handlers.NewProfileHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/profile/completeness", nil)
	req = handlers.WithAuthContext(req, "user-1", "user@example.com")

	w := httptest.NewRecorder()
	handler.Completeness(w, req)

	var resp map[string]bool
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp["complete"])
}
