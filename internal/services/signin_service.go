package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/totp"
	pkglogger "github.com/jobprep/jobprep/pkg/logger"
)

// EnrollmentReader looks up two-factor enrollment state ahead of password
// verification.
type EnrollmentReader interface {
	ReadEnrollmentByEmail(ctx context.Context, email string) (string, models.TwoFactorEnrollment, error)
}

// IdentityProvider issues sessions once the sign-in gate clears an attempt.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error)
}

// pendingAuth holds a sign-in attempt parked behind a two-factor challenge.
// It lives in memory only and is discarded once the challenge resolves.
type pendingAuth struct {
	ChallengeID string
	AccountID   string
	Email       string
	Password    string
	Secret      string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (p *pendingAuth) expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// SignInService gates password sign-in behind TOTP verification for enrolled
// accounts. Accounts without enrollment pass straight through to the
// identity provider.
type SignInService struct {
	profiles    EnrollmentReader
	idp         IdentityProvider
	window      uint
	pendingTTL  time.Duration
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger

	mu      sync.Mutex
	byID    map[string]*pendingAuth
	byEmail map[string]string
}

// NewSignInService creates a new SignInService
func NewSignInService(
	profiles EnrollmentReader,
	idp IdentityProvider,
	window uint,
	pendingTTL time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *SignInService {
	return &SignInService{
		profiles:    profiles,
		idp:         idp,
		window:      window,
		pendingTTL:  pendingTTL,
		logger:      logger,
		auditLogger: auditLogger,
		byID:        make(map[string]*pendingAuth),
		byEmail:     make(map[string]string),
	}
}

// SignInResult is the outcome of a sign-in attempt: either issued tokens, or
// a challenge the client must answer with a TOTP code.
type SignInResult struct {
	TwoFactorRequired bool
	ChallengeID       string
	Auth              *AuthResponse
}

// SignIn starts a sign-in attempt. Enrollment is checked before the password
// so an enrolled account never gets a session from the password alone; the
// credentials are parked until the code arrives.
func (s *SignInService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	accountID, enrollment, err := s.profiles.ReadEnrollmentByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to read enrollment state", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err == nil && enrollment.Enrolled() {
		challengeID, err := s.parkAttempt(accountID, email, password, *enrollment.Secret)
		if err != nil {
			return nil, err
		}
		s.logger.Info("sign-in requires two-factor code", slog.String("user_id", accountID))
		return &SignInResult{TwoFactorRequired: true, ChallengeID: challengeID}, nil
	}

	auth, err := s.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Auth: auth}, nil
}

// VerifyCode resolves a pending challenge. A wrong code keeps the challenge
// alive for another try; once the code is accepted the challenge is claimed
// and removed before the parked credentials go to the identity provider, so
// concurrent callers cannot redeem it twice. The challenge stays gone
// whatever the provider says.
func (s *SignInService) VerifyCode(ctx context.Context, challengeID, code string) (*AuthResponse, error) {
	s.mu.Lock()
	pending, ok := s.byID[challengeID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrChallengeNotFound
	}
	if pending.expired(time.Now()) {
		s.removeLocked(pending)
		s.mu.Unlock()
		return nil, models.ErrChallengeExpired
	}
	attempt := *pending
	s.mu.Unlock()

	if !totp.ValidateCode(attempt.Secret, code, time.Now(), s.window) {
		s.logger.Info("two-factor code rejected", slog.String("user_id", attempt.AccountID))
		s.auditLogger.LogTwoFactorChange("2fa_verify_failed", attempt.AccountID, false)
		return nil, models.ErrInvalidCode
	}

	// Claim the challenge before consulting the provider. Whoever loses the
	// race finds it gone and stops here.
	s.mu.Lock()
	current, ok := s.byID[challengeID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrChallengeNotFound
	}
	s.removeLocked(current)
	s.mu.Unlock()

	auth, err := s.idp.SignInWithPassword(ctx, attempt.Email, attempt.Password)
	if err != nil {
		s.auditLogger.LogTwoFactorChange("2fa_verify_provider_rejected", attempt.AccountID, false)
		return nil, err
	}

	s.auditLogger.LogTwoFactorChange("2fa_verify_success", attempt.AccountID, true)
	return auth, nil
}

// Cancel discards a pending challenge. Unknown challenge IDs are a no-op.
func (s *SignInService) Cancel(challengeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pending, ok := s.byID[challengeID]; ok {
		s.removeLocked(pending)
		s.logger.Info("two-factor challenge cancelled", slog.String("user_id", pending.AccountID))
	}
}

// ClearPendingForEmail drops any parked attempt for the account, used on
// sign-out and account changes.
func (s *SignInService) ClearPendingForEmail(email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byEmail[email]; ok {
		if pending, ok := s.byID[id]; ok {
			s.removeLocked(pending)
		}
	}
}

// SweepExpired removes challenges past their TTL and returns how many were
// dropped.
func (s *SignInService) SweepExpired() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, pending := range s.byID {
		if pending.expired(now) {
			s.removeLocked(pending)
			removed++
		}
	}
	return removed
}

// parkAttempt stores the attempt behind a fresh challenge ID. Only one
// attempt per account may be in flight; a live one blocks a second.
func (s *SignInService) parkAttempt(accountID, email, password, secret string) (string, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byEmail[email]; ok {
		if existing, ok := s.byID[id]; ok {
			if !existing.expired(now) {
				return "", models.ErrAttemptInProgress
			}
			s.removeLocked(existing)
		}
	}

	pending := &pendingAuth{
		ChallengeID: uuid.New().String(),
		AccountID:   accountID,
		Email:       email,
		Password:    password,
		Secret:      secret,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.pendingTTL),
	}
	s.byID[pending.ChallengeID] = pending
	s.byEmail[email] = pending.ChallengeID

	return pending.ChallengeID, nil
}

func (s *SignInService) removeLocked(pending *pendingAuth) {
	delete(s.byID, pending.ChallengeID)
	if id, ok := s.byEmail[pending.Email]; ok && id == pending.ChallengeID {
		delete(s.byEmail, pending.Email)
	}
}
