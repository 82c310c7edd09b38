package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/services"
	pkghttp "github.com/jobprep/jobprep/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   "access",
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithTokenContext adds the raw bearer token to request context
func WithTokenContext(req *http.Request, token string) *http.Request {
	ctx := context.WithValue(req.Context(), auth.TokenContextKey, token)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, email, password, name string) (*services.AuthResponse, error)
	RefreshTokenFunc         func(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	SignOutFunc              func(ctx context.Context, accessToken string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*services.AuthResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, email, password, name)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*services.AuthResponse, error) {
	if m.RefreshTokenFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshTokenFunc(ctx, refreshToken)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFunc == nil {
		return nil
	}
	return m.SignOutFunc(ctx, accessToken)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc == nil {
		return nil
	}
	return m.RequestPasswordResetFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return models.ErrUnauthorized
	}
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

// MockSignInService implements SignInServiceInterface for testing
type MockSignInService struct {
	SignInFunc               func(ctx context.Context, email, password string) (*services.SignInResult, error)
	VerifyCodeFunc           func(ctx context.Context, challengeID, code string) (*services.AuthResponse, error)
	CancelFunc               func(challengeID string)
	ClearPendingForEmailFunc func(email string)
}

func (m *MockSignInService) SignIn(ctx context.Context, email, password string) (*services.SignInResult, error) {
	if m.SignInFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.SignInFunc(ctx, email, password)
}

func (m *MockSignInService) VerifyCode(ctx context.Context, challengeID, code string) (*services.AuthResponse, error) {
	if m.VerifyCodeFunc == nil {
		return nil, models.ErrChallengeNotFound
	}
	return m.VerifyCodeFunc(ctx, challengeID, code)
}

func (m *MockSignInService) Cancel(challengeID string) {
	if m.CancelFunc != nil {
		m.CancelFunc(challengeID)
	}
}

func (m *MockSignInService) ClearPendingForEmail(email string) {
	if m.ClearPendingForEmailFunc != nil {
		m.ClearPendingForEmailFunc(email)
	}
}

// MockTwoFactorService implements TwoFactorServiceInterface for testing
type MockTwoFactorService struct {
	BeginEnrollmentFunc    func(ctx context.Context, accountID, email string) (*services.EnrollmentSetup, error)
	ContinueEnrollmentFunc func(accountID string) error
	VerifyEnrollmentFunc   func(ctx context.Context, accountID, code string) error
	CancelEnrollmentFunc   func(accountID string)
	DisableFunc            func(ctx context.Context, accountID string) error
	StatusFunc             func(ctx context.Context, accountID string) (bool, error)
}

func (m *MockTwoFactorService) BeginEnrollment(ctx context.Context, accountID, email string) (*services.EnrollmentSetup, error) {
	if m.BeginEnrollmentFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.BeginEnrollmentFunc(ctx, accountID, email)
}

func (m *MockTwoFactorService) ContinueEnrollment(accountID string) error {
	if m.ContinueEnrollmentFunc == nil {
		return nil
	}
	return m.ContinueEnrollmentFunc(accountID)
}

func (m *MockTwoFactorService) VerifyEnrollment(ctx context.Context, accountID, code string) error {
	if m.VerifyEnrollmentFunc == nil {
		return models.ErrEnrollmentNotFound
	}
	return m.VerifyEnrollmentFunc(ctx, accountID, code)
}

func (m *MockTwoFactorService) CancelEnrollment(accountID string) {
	if m.CancelEnrollmentFunc != nil {
		m.CancelEnrollmentFunc(accountID)
	}
}

func (m *MockTwoFactorService) Disable(ctx context.Context, accountID string) error {
	if m.DisableFunc == nil {
		return nil
	}
	return m.DisableFunc(ctx, accountID)
}

func (m *MockTwoFactorService) Status(ctx context.Context, accountID string) (bool, error) {
	if m.StatusFunc == nil {
		return false, nil
	}
	return m.StatusFunc(ctx, accountID)
}

// MockProfileService implements ProfileServiceInterface for testing
type MockProfileService struct {
	GetFunc        func(ctx context.Context, accountID string) (*models.Profile, error)
	UpdateFunc     func(ctx context.Context, accountID, email string, input services.ProfileInput) (*models.Profile, error)
	IsCompleteFunc func(ctx context.Context, accountID string) (bool, error)
}

func (m *MockProfileService) Get(ctx context.Context, accountID string) (*models.Profile, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, accountID)
}

func (m *MockProfileService) Update(ctx context.Context, accountID, email string, input services.ProfileInput) (*models.Profile, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpdateFunc(ctx, accountID, email, input)
}

func (m *MockProfileService) IsComplete(ctx context.Context, accountID string) (bool, error) {
	if m.IsCompleteFunc == nil {
		return false, nil
	}
	return m.IsCompleteFunc(ctx, accountID)
}

// MockAnalysisService implements AnalysisServiceInterface for testing
type MockAnalysisService struct {
	AnalyzeResumeFunc func(ctx context.Context, userID, resumeText, jobDescription string) (*models.ResumeAnalysis, error)
	HistoryFunc       func(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error)
	SuggestRolesFunc  func(ctx context.Context, userID, country string, limit int) ([]models.RoleSuggestion, error)
	BuildHeatmapFunc  func(ctx context.Context, userID string, skills, locations []string) (*models.Heatmap, error)
}

func (m *MockAnalysisService) AnalyzeResume(ctx context.Context, userID, resumeText, jobDescription string) (*models.ResumeAnalysis, error) {
	if m.AnalyzeResumeFunc == nil {
		return nil, models.ErrBadRequest
	}
	return m.AnalyzeResumeFunc(ctx, userID, resumeText, jobDescription)
}

func (m *MockAnalysisService) History(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error) {
	if m.HistoryFunc == nil {
		return []*models.ResumeAnalysis{}, nil
	}
	return m.HistoryFunc(ctx, userID, limit)
}

func (m *MockAnalysisService) SuggestRoles(ctx context.Context, userID, country string, limit int) ([]models.RoleSuggestion, error) {
	if m.SuggestRolesFunc == nil {
		return []models.RoleSuggestion{}, nil
	}
	return m.SuggestRolesFunc(ctx, userID, country, limit)
}

func (m *MockAnalysisService) BuildHeatmap(ctx context.Context, userID string, skills, locations []string) (*models.Heatmap, error) {
	if m.BuildHeatmapFunc == nil {
		return &models.Heatmap{}, nil
	}
	return m.BuildHeatmapFunc(ctx, userID, skills, locations)
}
