package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/models"
	pkgauth "github.com/jobprep/jobprep/pkg/auth"
	pkglogger "github.com/jobprep/jobprep/pkg/logger"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// TokenRevocationRepository defines the interface for token revocation operations
type TokenRevocationRepository interface {
	RevokeToken(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// PasswordResetRepository defines the interface for reset token storage
type PasswordResetRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*models.PasswordResetToken, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id string) error
}

// ProfileCreator seeds a profile row at registration so the sign-in gate can
// always read enrollment state by email.
type ProfileCreator interface {
	Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

// EmailSender delivers password reset emails
type EmailSender interface {
	SendPasswordResetEmail(ctx context.Context, email, token string, expiresAt time.Time) error
}

// AuthService is the identity provider: it owns password verification and
// session token issuance. The two-factor sign-in gate consumes it through
// the IdentityProvider interface.
type AuthService struct {
	repo             UserRepository
	revokeRepo       TokenRevocationRepository
	resetRepo        PasswordResetRepository
	profiles         ProfileCreator
	emailService     EmailSender
	tm               *auth.TokenManager
	resetTokenExpiry time.Duration
	logger           *slog.Logger
	auditLogger      *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repo UserRepository,
	revokeRepo TokenRevocationRepository,
	resetRepo PasswordResetRepository,
	profiles ProfileCreator,
	emailService EmailSender,
	tm *auth.TokenManager,
	resetTokenExpiry time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:             repo,
		revokeRepo:       revokeRepo,
		resetRepo:        resetRepo,
		profiles:         profiles,
		emailService:     emailService,
		tm:               tm,
		resetTokenExpiry: resetTokenExpiry,
		logger:           logger,
		auditLogger:      auditLogger,
	}
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// SignInWithPassword authenticates a user against the stored password hash
// and returns session tokens. It performs no two-factor checks; the sign-in
// gate decides when this is allowed to run.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error) {
	if email = strings.ToLower(strings.TrimSpace(email)); email == "" {
		s.logger.Warn("sign-in attempt with empty email")
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Log failure without exposing email
			s.logger.Info("sign-in failed: invalid credentials")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "signin_failed",
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("sign-in failed: invalid credentials")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "signin_failed",
			UserID:        user.ID,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		return nil, models.ErrUnauthorized
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "signin_success",
		UserID:    user.ID,
		Success:   true,
	})

	return resp, nil
}

// Register creates a new user account and its empty profile record
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("registration failed: user already exists")
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check if user exists", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error("failed to create user", slog.Any("error", err))
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		return nil, models.ErrInternalServer
	}

	// Seed the profile row; enrollment reads depend on it existing
	if _, err := s.profiles.Upsert(ctx, &models.Profile{
		ID:    createdUser.ID,
		Email: createdUser.Email,
	}); err != nil {
		s.logger.Error("failed to seed profile", slog.String("user_id", createdUser.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	resp, err := s.issueTokens(createdUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAccountAction("user_registered", createdUser.ID, "")

	return resp, nil
}

// RefreshToken generates a new token pair from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	if refreshTokenString = strings.TrimSpace(refreshTokenString); refreshTokenString == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.ValidateToken(refreshTokenString)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	if claims.Type != "refresh" {
		s.logger.Warn("refresh attempt with non-refresh token", slog.String("user_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	if claims.ID != "" {
		revoked, err := s.revokeRepo.IsTokenRevoked(ctx, claims.ID)
		if err == nil && revoked {
			return nil, models.ErrUnauthorized
		}
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for token refresh", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("token refreshed", slog.String("user_id", user.ID))
	return resp, nil
}

// SignOut revokes the current access token
func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.tm.ValidateToken(accessToken)
	if err != nil {
		return models.ErrUnauthorized
	}

	expiresAt := claims.ExpiresAt.Time
	err = s.revokeRepo.RevokeToken(ctx, claims.ID, claims.UserID, claims.Type, expiresAt, "signout")
	if err != nil {
		s.logger.Error("failed to revoke token", slog.String("jti", claims.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user signed out", slog.String("user_id", claims.UserID))
	return nil
}

// RequestPasswordReset creates a single-use reset token and emails it.
// The response is identical whether or not the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Do not reveal account existence
			return nil
		}
		s.logger.Error("failed to look up user for password reset", slog.Any("error", err))
		return models.ErrInternalServer
	}

	plainToken, err := generateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	expiresAt := time.Now().Add(s.resetTokenExpiry)
	if _, err := s.resetRepo.Create(ctx, user.ID, hashResetToken(plainToken), expiresAt); err != nil {
		s.logger.Error("failed to store reset token", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, user.Email, plainToken, expiresAt); err != nil {
		s.logger.Error("failed to send reset email", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("password_reset_requested", user.ID, "")
	return nil
}

// ResetPassword consumes a reset token and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) error {
	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	token, err := s.resetRepo.GetByTokenHash(ctx, hashResetToken(plainToken))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnauthorized
		}
		s.logger.Error("failed to look up reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return models.ErrUnauthorized
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, token.UserID, hashedPassword); err != nil {
		s.logger.Error("failed to update password", slog.String("user_id", token.UserID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.resetRepo.MarkUsed(ctx, token.ID); err != nil {
		s.logger.Error("failed to mark reset token used", slog.String("token_id", token.ID), slog.Any("error", err))
	}

	s.auditLogger.LogAccountAction("password_reset_completed", token.UserID, "")
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.tm.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userModelToResponse(user),
	}, nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// userModelToResponse converts a user model to response DTO
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
