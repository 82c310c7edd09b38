package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobprep/jobprep/internal/handlers"
	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/services"
)

func TestTwoFactorSetup_Success(t *testing.T) {
	mockService := &handlers.MockTwoFactorService{
		BeginEnrollmentFunc: func(ctx context.Context, accountID, email string) (*services.EnrollmentSetup, error) {
			assert.Equal(t, "user123", accountID)
			assert.Equal(t, "user@example.com", email)
			return &services.EnrollmentSetup{
				Secret:          "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP",
				ProvisioningURI: "otpauth://totp/Job%20Prep%20Heatmap:user@example.com?secret=JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP",
				QRCode:          "data:image/png;base64,abc",
			}, nil
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/setup", nil)
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Setup(w, req)

	var resp handlers.EnrollmentSetupResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP", resp.Secret)
	assert.Contains(t, resp.ProvisioningURI, "otpauth://totp/")
	assert.Contains(t, resp.QRCode, "data:image/png;base64,")
}

func TestTwoFactorSetup_Unauthenticated(t *testing.T) {
	handler := handlers.NewTwoFactorHandler(&handlers.MockTwoFactorService{})
	req := handlers.NewTestRequest(t, "POST", "/2fa/setup", nil)

	w := httptest.NewRecorder()
	handler.Setup(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestTwoFactorContinue_Success(t *testing.T) {
	continued := false
	mockService := &handlers.MockTwoFactorService{
		ContinueEnrollmentFunc: func(accountID string) error {
			continued = true
			return nil
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/setup/continue", nil)
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Continue(w, req)

	assert.Equal(t, 204, w.Code)
	assert.True(t, continued)
}

func TestTwoFactorContinue_NoEnrollment(t *testing.T) {
	mockService := &handlers.MockTwoFactorService{
		ContinueEnrollmentFunc: func(accountID string) error {
			return models.ErrEnrollmentNotFound
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/setup/continue", nil)
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Continue(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestTwoFactorVerify_Success(t *testing.T) {
	mockService := &handlers.MockTwoFactorService{
		VerifyEnrollmentFunc: func(ctx context.Context, accountID, code string) error {
			assert.Equal(t, "user123", accountID)
			assert.Equal(t, "123456", code)
			return nil
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/verify", handlers.VerifyEnrollmentRequest{Code: "123456"})
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	var resp handlers.TwoFactorStatusResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Enabled)
}

func TestTwoFactorVerify_InvalidCode(t *testing.T) {
	mockService := &handlers.MockTwoFactorService{
		VerifyEnrollmentFunc: func(ctx context.Context, accountID, code string) error {
			return models.ErrInvalidCode
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/verify", handlers.VerifyEnrollmentRequest{Code: "000000"})
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestTwoFactorVerify_MalformedCode(t *testing.T) {
	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		handler := handlers.NewTwoFactorHandler(&handlers.MockTwoFactorService{})
		req := handlers.NewTestRequest(t, "POST", "/2fa/verify", handlers.VerifyEnrollmentRequest{Code: code})
		req = handlers.WithAuthContext(req, "user123", "user@example.com")

		w := httptest.NewRecorder()
		handler.Verify(w, req)

		handlers.AssertErrorResponse(t, w, 400, "bad_request")
	}
}

func TestTwoFactorCancel(t *testing.T) {
	var cancelled string
	mockService := &handlers.MockTwoFactorService{
		CancelEnrollmentFunc: func(accountID string) {
			cancelled = accountID
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/cancel", nil)
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Cancel(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "user123", cancelled)
}

func TestTwoFactorDisable_Success(t *testing.T) {
	mockService := &handlers.MockTwoFactorService{
		DisableFunc: func(ctx context.Context, accountID string) error {
			return nil
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/2fa/disable", nil)
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Disable(w, req)

	var resp handlers.TwoFactorStatusResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.False(t, resp.Enabled)
}

func TestTwoFactorStatus(t *testing.T) {
	mockService := &handlers.MockTwoFactorService{
		StatusFunc: func(ctx context.Context, accountID string) (bool, error) {
			return true, nil
		},
	}

	handler := handlers.NewTwoFactorHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/2fa/status", nil)
	req = handlers.WithAuthContext(req, "user123", "user@example.com")

	w := httptest.NewRecorder()
	handler.Status(w, req)

	var resp handlers.TwoFactorStatusResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Enabled)
}
