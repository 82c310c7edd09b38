package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/services"
	pkghttp "github.com/jobprep/jobprep/pkg/http"
)

// AuthServiceInterface defines the interface for account business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password, name string) (*services.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// SignInServiceInterface defines the interface for the two-factor sign-in gate
type SignInServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (*services.SignInResult, error)
	VerifyCode(ctx context.Context, challengeID, code string) (*services.AuthResponse, error)
	Cancel(challengeID string)
	ClearPendingForEmail(email string)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service       AuthServiceInterface
	signInService SignInServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, signInService SignInServiceInterface) *AuthHandler {
	return &AuthHandler{
		service:       service,
		signInService: signInService,
	}
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,min=1"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// VerifyTwoFactorRequest represents the request body for answering a
// two-factor sign-in challenge
type VerifyTwoFactorRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// CancelTwoFactorRequest represents the request body for abandoning a
// two-factor sign-in challenge
type CancelTwoFactorRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

// ForgotPasswordRequest represents the request body for a reset email
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for completing a reset
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// TwoFactorChallengeResponse tells the client a code is needed before
// tokens are issued
type TwoFactorChallengeResponse struct {
	TwoFactorRequired bool   `json:"two_factor_required"`
	ChallengeID       string `json:"challenge_id"`
}

// Login handles user login. Enrolled accounts receive a two-factor
// challenge instead of tokens.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result, err := h.signInService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Authentication failed")
		case errors.Is(err, models.ErrAttemptInProgress):
			pkghttp.WriteConflict(w, "A sign-in attempt is already awaiting a verification code")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	if result.TwoFactorRequired {
		pkghttp.WriteJSON(w, http.StatusOK, TwoFactorChallengeResponse{
			TwoFactorRequired: true,
			ChallengeID:       result.ChallengeID,
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result.Auth)
}

// VerifyTwoFactor completes a login that was parked behind a TOTP challenge
func (h *AuthHandler) VerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req VerifyTwoFactorRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	authResp, err := h.signInService.VerifyCode(r.Context(), req.ChallengeID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCode):
			pkghttp.WriteUnauthorized(w, "Invalid verification code")
		case errors.Is(err, models.ErrChallengeNotFound),
			errors.Is(err, models.ErrChallengeExpired):
			// Stale and unknown challenges look the same to the client
			pkghttp.WriteUnauthorized(w, "Challenge expired, please sign in again")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Authentication failed")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, authResp)
}

// CancelTwoFactor abandons a pending two-factor challenge
func (h *AuthHandler) CancelTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req CancelTwoFactorRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	h.signInService.Cancel(req.ChallengeID)
	w.WriteHeader(http.StatusNoContent)
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	authResp, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "An account with this email already exists")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, authResp)
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	authResp, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Authentication failed")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, authResp)
}

// Logout revokes the access token and drops any pending two-factor attempt
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString := auth.GetTokenFromContext(r)
	if tokenString == "" {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if claims := auth.GetUserFromContext(r); claims != nil {
		h.signInService.ClearPendingForEmail(claims.Email)
	}

	if err := h.service.SignOut(r.Context(), tokenString); err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Authentication failed")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ForgotPassword requests a password reset email. The response never
// reveals whether the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "If the email is registered, you will receive reset instructions.",
	})
}

// ResetPassword completes a password reset using an emailed token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired reset token")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset. You can now sign in with your new password.",
	})
}
