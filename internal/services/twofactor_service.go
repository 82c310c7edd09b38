package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/totp"
	pkglogger "github.com/jobprep/jobprep/pkg/logger"
)

// EnrollmentGateway reads and writes persisted two-factor enrollment state.
type EnrollmentGateway interface {
	ReadEnrollment(ctx context.Context, accountID string) (models.TwoFactorEnrollment, error)
	WriteEnrollment(ctx context.Context, accountID string, enabled bool, secret *string) error
}

// EnrollmentState tracks where an in-flight enrollment session stands.
type EnrollmentState string

const (
	// StateSecretGenerated means the secret and QR code were issued but the
	// user has not yet asked to enter a code.
	StateSecretGenerated EnrollmentState = "secret_generated"
	// StateAwaitingVerification means the service will accept a code.
	StateAwaitingVerification EnrollmentState = "awaiting_verification"
)

// enrollmentSession holds a not-yet-confirmed secret. The secret reaches the
// database only after the user proves possession with a valid code.
type enrollmentSession struct {
	AccountID string
	Secret    string
	URI       string
	QRCode    string
	State     EnrollmentState
	ExpiresAt time.Time
}

func (e *enrollmentSession) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// EnrollmentSetup is what the client needs to register the secret with an
// authenticator app.
type EnrollmentSetup struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code"`
}

// TwoFactorService runs the enrollment flow and account-level enable/disable
// of TOTP two-factor authentication.
type TwoFactorService struct {
	gateway       EnrollmentGateway
	issuer        string
	window        uint
	enrollmentTTL time.Duration
	logger        *slog.Logger
	auditLogger   *pkglogger.AuditLogger

	mu       sync.Mutex
	sessions map[string]*enrollmentSession
}

// NewTwoFactorService creates a new TwoFactorService
func NewTwoFactorService(
	gateway EnrollmentGateway,
	issuer string,
	window uint,
	enrollmentTTL time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *TwoFactorService {
	return &TwoFactorService{
		gateway:       gateway,
		issuer:        issuer,
		window:        window,
		enrollmentTTL: enrollmentTTL,
		logger:        logger,
		auditLogger:   auditLogger,
		sessions:      make(map[string]*enrollmentSession),
	}
}

// BeginEnrollment generates a fresh secret with its provisioning URI and QR
// code, replacing any session already open for the account. Nothing is
// persisted at this point.
func (s *TwoFactorService) BeginEnrollment(ctx context.Context, accountID, email string) (*EnrollmentSetup, error) {
	secret, err := totp.GenerateSecret()
	if err != nil {
		s.logger.Error("failed to generate two-factor secret", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	uri, err := totp.ProvisioningURI(secret, s.issuer, email)
	if err != nil {
		s.logger.Error("failed to build provisioning URI", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	qr, err := totp.QRCodeDataURL(uri)
	if err != nil {
		s.logger.Error("failed to render QR code", slog.String("user_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	session := &enrollmentSession{
		AccountID: accountID,
		Secret:    secret,
		URI:       uri,
		QRCode:    qr,
		State:     StateSecretGenerated,
		ExpiresAt: time.Now().Add(s.enrollmentTTL),
	}

	s.mu.Lock()
	s.sessions[accountID] = session
	s.mu.Unlock()

	s.logger.Info("two-factor enrollment started", slog.String("user_id", accountID))
	return &EnrollmentSetup{Secret: secret, ProvisioningURI: uri, QRCode: qr}, nil
}

// ContinueEnrollment moves the session to the verification step. Codes are
// only accepted after this transition.
func (s *TwoFactorService) ContinueEnrollment(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[accountID]
	if !ok {
		return models.ErrEnrollmentNotFound
	}
	if session.expired(time.Now()) {
		delete(s.sessions, accountID)
		return models.ErrEnrollmentExpired
	}

	session.State = StateAwaitingVerification
	return nil
}

// VerifyEnrollment checks the submitted code against the in-memory secret
// and, on success, persists the enrollment. A persistence failure keeps the
// session so the user can retry without rescanning the QR code.
func (s *TwoFactorService) VerifyEnrollment(ctx context.Context, accountID, code string) error {
	s.mu.Lock()
	session, ok := s.sessions[accountID]
	if !ok {
		s.mu.Unlock()
		return models.ErrEnrollmentNotFound
	}
	if session.expired(time.Now()) {
		delete(s.sessions, accountID)
		s.mu.Unlock()
		return models.ErrEnrollmentExpired
	}
	if session.State != StateAwaitingVerification {
		s.mu.Unlock()
		return models.ErrNotAwaitingCode
	}
	secret := session.Secret
	s.mu.Unlock()

	if !totp.ValidateCode(secret, code, time.Now(), s.window) {
		s.logger.Info("enrollment code rejected", slog.String("user_id", accountID))
		s.auditLogger.LogTwoFactorChange("2fa_enroll_failed", accountID, false)
		return models.ErrInvalidCode
	}

	if err := s.gateway.WriteEnrollment(ctx, accountID, true, &secret); err != nil {
		s.logger.Error("failed to persist enrollment", slog.String("user_id", accountID), slog.Any("error", err))
		s.auditLogger.LogTwoFactorChange("2fa_enroll_persist_failed", accountID, false)
		return models.ErrInternalServer
	}

	s.mu.Lock()
	delete(s.sessions, accountID)
	s.mu.Unlock()

	s.logger.Info("two-factor enrollment completed", slog.String("user_id", accountID))
	s.auditLogger.LogTwoFactorChange("2fa_enabled", accountID, true)
	return nil
}

// CancelEnrollment discards the in-flight session. The persisted enrollment
// state is untouched.
func (s *TwoFactorService) CancelEnrollment(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[accountID]; ok {
		delete(s.sessions, accountID)
		s.logger.Info("two-factor enrollment cancelled", slog.String("user_id", accountID))
	}
}

// Disable turns two-factor off and clears the stored secret in one write.
// Disabling an account that was never enrolled succeeds.
func (s *TwoFactorService) Disable(ctx context.Context, accountID string) error {
	if err := s.gateway.WriteEnrollment(ctx, accountID, false, nil); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to disable two-factor", slog.String("user_id", accountID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.mu.Lock()
	delete(s.sessions, accountID)
	s.mu.Unlock()

	s.logger.Info("two-factor disabled", slog.String("user_id", accountID))
	s.auditLogger.LogTwoFactorChange("2fa_disabled", accountID, true)
	return nil
}

// Status reports whether the account has a confirmed enrollment.
func (s *TwoFactorService) Status(ctx context.Context, accountID string) (bool, error) {
	enrollment, err := s.gateway.ReadEnrollment(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("failed to read enrollment status", slog.String("user_id", accountID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}
	return enrollment.Enrolled(), nil
}

// SweepExpired drops enrollment sessions past their TTL.
func (s *TwoFactorService) SweepExpired() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
