package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/services"
	pkghttp "github.com/jobprep/jobprep/pkg/http"
)

// TwoFactorServiceInterface defines the interface for enrollment business logic
type TwoFactorServiceInterface interface {
	BeginEnrollment(ctx context.Context, accountID, email string) (*services.EnrollmentSetup, error)
	ContinueEnrollment(accountID string) error
	VerifyEnrollment(ctx context.Context, accountID, code string) error
	CancelEnrollment(accountID string)
	Disable(ctx context.Context, accountID string) error
	Status(ctx context.Context, accountID string) (bool, error)
}

// TwoFactorHandler handles two-factor enrollment HTTP requests
type TwoFactorHandler struct {
	service TwoFactorServiceInterface
}

// NewTwoFactorHandler creates a new TwoFactorHandler
func NewTwoFactorHandler(service TwoFactorServiceInterface) *TwoFactorHandler {
	return &TwoFactorHandler{service: service}
}

// Setup starts enrollment: it returns a fresh secret, its otpauth URI, and
// a QR code. Nothing is saved until the code is verified.
func (h *TwoFactorHandler) Setup(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	setup, err := h.service.BeginEnrollment(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, EnrollmentSetupResponse{
		Secret:          setup.Secret,
		ProvisioningURI: setup.ProvisioningURI,
		QRCode:          setup.QRCode,
	})
}

// Continue moves enrollment to the verification step once the user has
// scanned the QR code
func (h *TwoFactorHandler) Continue(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.ContinueEnrollment(claims.UserID); err != nil {
		switch {
		case errors.Is(err, models.ErrEnrollmentNotFound),
			errors.Is(err, models.ErrEnrollmentExpired):
			pkghttp.WriteBadRequest(w, "No enrollment in progress, start setup again")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Verify confirms enrollment with a code from the authenticator app
func (h *TwoFactorHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req VerifyEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.VerifyEnrollment(r.Context(), claims.UserID, req.Code); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCode):
			pkghttp.WriteBadRequest(w, "Invalid verification code")
		case errors.Is(err, models.ErrEnrollmentNotFound),
			errors.Is(err, models.ErrEnrollmentExpired):
			pkghttp.WriteBadRequest(w, "No enrollment in progress, start setup again")
		case errors.Is(err, models.ErrNotAwaitingCode):
			pkghttp.WriteBadRequest(w, "Enrollment is not ready for a code")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TwoFactorStatusResponse{Enabled: true})
}

// Cancel abandons an in-progress enrollment
func (h *TwoFactorHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	h.service.CancelEnrollment(claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Disable turns off two-factor authentication for the account
func (h *TwoFactorHandler) Disable(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Disable(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Account not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TwoFactorStatusResponse{Enabled: false})
}

// Status reports whether two-factor is enabled
func (h *TwoFactorHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	enabled, err := h.service.Status(r.Context(), claims.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TwoFactorStatusResponse{Enabled: enabled})
}
