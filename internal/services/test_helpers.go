package services

import (
	"context"
	"time"

	"github.com/jobprep/jobprep/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, userID, passwordHash string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}

// MockTokenRevocationRepository implements TokenRevocationRepository for testing
type MockTokenRevocationRepository struct {
	RevokeTokenFunc    func(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error
	IsTokenRevokedFunc func(ctx context.Context, jti string) (bool, error)
}

func (m *MockTokenRevocationRepository) RevokeToken(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error {
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx, jti, userID, tokenType, expiresAt, reason)
	}
	return nil
}

func (m *MockTokenRevocationRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsTokenRevokedFunc != nil {
		return m.IsTokenRevokedFunc(ctx, jti)
	}
	return false, nil
}

// MockPasswordResetRepository implements PasswordResetRepository for testing
type MockPasswordResetRepository struct {
	CreateFunc         func(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*models.PasswordResetToken, error)
	GetByTokenHashFunc func(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	MarkUsedFunc       func(ctx context.Context, id string) error
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*models.PasswordResetToken, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, tokenHash, expiresAt)
	}
	return &models.PasswordResetToken{ID: "reset_test_1", UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}, nil
}

func (m *MockPasswordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	if m.GetByTokenHashFunc != nil {
		return m.GetByTokenHashFunc(ctx, tokenHash)
	}
	return nil, models.ErrNotFound
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id)
	}
	return nil
}

// MockProfileRepository implements ProfileRepository and ProfileCreator for testing
type MockProfileRepository struct {
	GetByAccountIDFunc func(ctx context.Context, accountID string) (*models.Profile, error)
	UpsertFunc         func(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

func (m *MockProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID)
	}
	return nil, models.ErrNotFound
}

func (m *MockProfileRepository) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, p)
	}
	return p, nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendPasswordResetEmailFunc func(ctx context.Context, email, token string, expiresAt time.Time) error
}

func (m *MockEmailSender) SendPasswordResetEmail(ctx context.Context, email, token string, expiresAt time.Time) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, token, expiresAt)
	}
	return nil
}

// MockEnrollmentReader implements EnrollmentReader for testing
type MockEnrollmentReader struct {
	ReadEnrollmentByEmailFunc func(ctx context.Context, email string) (string, models.TwoFactorEnrollment, error)
}

func (m *MockEnrollmentReader) ReadEnrollmentByEmail(ctx context.Context, email string) (string, models.TwoFactorEnrollment, error) {
	if m.ReadEnrollmentByEmailFunc != nil {
		return m.ReadEnrollmentByEmailFunc(ctx, email)
	}
	return "", models.TwoFactorEnrollment{}, models.ErrNotFound
}

// MockIdentityProvider implements IdentityProvider for testing
type MockIdentityProvider struct {
	SignInWithPasswordFunc func(ctx context.Context, email, password string) (*AuthResponse, error)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error) {
	if m.SignInWithPasswordFunc != nil {
		return m.SignInWithPasswordFunc(ctx, email, password)
	}
	return nil, models.ErrUnauthorized
}

// MockEnrollmentGateway implements EnrollmentGateway for testing
type MockEnrollmentGateway struct {
	ReadEnrollmentFunc  func(ctx context.Context, accountID string) (models.TwoFactorEnrollment, error)
	WriteEnrollmentFunc func(ctx context.Context, accountID string, enabled bool, secret *string) error
}

func (m *MockEnrollmentGateway) ReadEnrollment(ctx context.Context, accountID string) (models.TwoFactorEnrollment, error) {
	if m.ReadEnrollmentFunc != nil {
		return m.ReadEnrollmentFunc(ctx, accountID)
	}
	return models.TwoFactorEnrollment{}, nil
}

func (m *MockEnrollmentGateway) WriteEnrollment(ctx context.Context, accountID string, enabled bool, secret *string) error {
	if m.WriteEnrollmentFunc != nil {
		return m.WriteEnrollmentFunc(ctx, accountID, enabled, secret)
	}
	return nil
}

// MockAnalysisStore implements AnalysisStore for testing
type MockAnalysisStore struct {
	CreateFunc       func(ctx context.Context, a *models.ResumeAnalysis) error
	ListByUserIDFunc func(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error)
}

func (m *MockAnalysisStore) Create(ctx context.Context, a *models.ResumeAnalysis) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

func (m *MockAnalysisStore) ListByUserID(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, limit)
	}
	return []*models.ResumeAnalysis{}, nil
}
