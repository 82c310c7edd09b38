package models

import (
	"time"
)

// Profile holds the user's job-search profile record. The two-factor fields
// live here because the profiles table is the single source of truth for
// enrollment state.
type Profile struct {
	ID                 string
	Email              string
	FullName           string
	Skills             []string
	PreferredLocations []string
	ResumeURL          *string
	Certifications     []string
	Achievements       *string
	MobileNumber       *string
	TwoFactorEnabled   bool
	TwoFactorSecret    *string // base32, nil unless enrollment completed
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsComplete reports whether the profile has enough data to skip the setup
// wizard.
func (p *Profile) IsComplete() bool {
	return p.FullName != "" && len(p.Skills) > 0 && len(p.PreferredLocations) > 0
}

// TwoFactorEnrollment is the persisted enrollment state read by the sign-in
// gate. Enabled implies Secret is non-nil; the two fields are always written
// together.
type TwoFactorEnrollment struct {
	Enabled bool
	Secret  *string
}

// Enrolled reports whether the account requires a second factor at sign-in.
func (e TwoFactorEnrollment) Enrolled() bool {
	return e.Enabled && e.Secret != nil
}
