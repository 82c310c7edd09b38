// Package totp implements the RFC 6238 time-based one-time password pieces
// used by two-factor enrollment and sign-in: secret generation, otpauth
// provisioning URIs, and time-windowed code validation. It performs no I/O.
package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// SecretSize is the secret length in bytes (160 bits, RFC 4226
	// recommendation).
	SecretSize = 20

	// Digits is the code length.
	Digits = 6

	// Period is the time-step duration in seconds.
	Period = 30

	// DefaultWindow accepts codes from the previous, current, and next
	// time step to tolerate clock drift between server and authenticator.
	DefaultWindow = 1
)

var (
	ErrSecretGeneration = errors.New("failed to generate TOTP secret")
	ErrMissingSecret    = errors.New("missing secret")
	ErrMissingIssuer    = errors.New("missing issuer")
	ErrMissingLabel     = errors.New("missing account label")
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret returns a fresh base32-encoded secret from crypto/rand.
// Entropy failure is fatal for the calling flow; the caller must restart
// enrollment.
func GenerateSecret() (string, error) {
	buf := make([]byte, SecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrSecretGeneration, err)
	}
	return b32.EncodeToString(buf), nil
}

// ProvisioningURI builds the otpauth:// URI consumed by authenticator apps:
//
//	otpauth://totp/{issuer}:{label}?secret=..&issuer=..&algorithm=SHA1&digits=6&period=30
//
// The URI is derived, never stored.
func ProvisioningURI(secret, issuer, accountLabel string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	if issuer == "" {
		return "", ErrMissingIssuer
	}
	if accountLabel == "" {
		return "", ErrMissingLabel
	}

	label := fmt.Sprintf("%s:%s", url.PathEscape(issuer), url.PathEscape(accountLabel))

	query := url.Values{}
	query.Set("secret", secret)
	query.Set("issuer", issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", Digits))
	query.Set("period", fmt.Sprintf("%d", Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// ComputeCode derives the 6-digit code for the time step containing t.
func ComputeCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, totp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// ValidateCode reports whether code matches the secret for any time step
// within ±window of t. Malformed input (wrong length, non-numeric, bad
// secret) is a mismatch, not an error.
func ValidateCode(secret, code string, t time.Time, window uint) bool {
	if len(code) != Digits || !isNumeric(code) {
		return false
	}

	valid, err := totp.ValidateCustom(code, secret, t, totp.ValidateOpts{
		Period:    Period,
		Skew:      window,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
