package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.TwoFactor.Issuer != "Job Prep Heatmap" {
		t.Errorf("Issuer: got %q, want %q", cfg.TwoFactor.Issuer, "Job Prep Heatmap")
	}
	if cfg.TwoFactor.Window != 1 {
		t.Errorf("Window: got %d, want 1", cfg.TwoFactor.Window)
	}
	if cfg.TwoFactor.PendingTTL != 5*time.Minute {
		t.Errorf("PendingTTL: got %v, want 5m", cfg.TwoFactor.PendingTTL)
	}
	if cfg.TwoFactor.EnrollmentTTL != 15*time.Minute {
		t.Errorf("EnrollmentTTL: got %v, want 15m", cfg.TwoFactor.EnrollmentTTL)
	}
	if cfg.Auth.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("AccessTokenExpiry: got %v, want 15m", cfg.Auth.AccessTokenExpiry)
	}
	if cfg.Database.Name != "jobprep" {
		t.Errorf("DB name: got %q, want %q", cfg.Database.Name, "jobprep")
	}
}

func TestLoad_CustomTwoFactorValues(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("TOTP_ISSUER", "Example Corp")
	os.Setenv("TWO_FACTOR_PENDING_TTL", "2m")
	os.Setenv("TWO_FACTOR_ENROLLMENT_TTL", "30m")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.TwoFactor.Issuer != "Example Corp" {
		t.Errorf("Issuer: got %q, want %q", cfg.TwoFactor.Issuer, "Example Corp")
	}
	if cfg.TwoFactor.PendingTTL != 2*time.Minute {
		t.Errorf("PendingTTL: got %v, want 2m", cfg.TwoFactor.PendingTTL)
	}
	if cfg.TwoFactor.EnrollmentTTL != 30*time.Minute {
		t.Errorf("EnrollmentTTL: got %v, want 30m", cfg.TwoFactor.EnrollmentTTL)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing JWT_SECRET")
	}
}

func TestLoad_WeakJWTSecretRejected(t *testing.T) {
	os.Setenv("JWT_SECRET", "short")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for short JWT_SECRET")
	}
}

func TestLoad_ProductionRequiresLongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "only-twenty-chars!!!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for sub-32-char secret in production")
	}
}
