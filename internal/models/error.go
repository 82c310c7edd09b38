package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Two-factor errors
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrChallengeNotFound  = errors.New("no pending two-factor challenge")
	ErrChallengeExpired   = errors.New("two-factor challenge has expired")
	ErrAttemptInProgress  = errors.New("a sign-in attempt is already pending for this account")
	ErrEnrollmentNotFound = errors.New("no enrollment in progress")
	ErrEnrollmentExpired  = errors.New("enrollment session has expired")
	ErrNotAwaitingCode    = errors.New("enrollment is not awaiting verification")
)
