package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobprep/jobprep/internal/models"
	"github.com/jobprep/jobprep/internal/totp"
	pkglogger "github.com/jobprep/jobprep/pkg/logger"
)

func newTwoFactorService(gateway EnrollmentGateway, ttl time.Duration) *TwoFactorService {
	logger := slog.Default()
	return NewTwoFactorService(gateway, "Job Prep Heatmap", 1, ttl, logger, pkglogger.NewAuditLogger(logger))
}

// ============================================================================
// BeginEnrollment Tests
// ============================================================================

func TestTwoFactorService_BeginEnrollment_Success(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, 15*time.Minute)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")

	require.NoError(t, err)
	assert.Len(t, setup.Secret, 32)
	assert.Contains(t, setup.ProvisioningURI, "otpauth://totp/")
	assert.Contains(t, setup.ProvisioningURI, "secret="+setup.Secret)
	assert.Contains(t, setup.QRCode, "data:image/png;base64,")
}

func TestTwoFactorService_BeginEnrollment_NothingPersisted(t *testing.T) {
	writes := 0
	gateway := &MockEnrollmentGateway{
		WriteEnrollmentFunc: func(ctx context.Context, accountID string, enabled bool, secret *string) error {
			writes++
			return nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	_, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")

	require.NoError(t, err)
	assert.Zero(t, writes)
}

func TestTwoFactorService_BeginEnrollment_ReplacesExistingSession(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, 15*time.Minute)

	first, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)
	second, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.Secret, second.Secret)

	// The old secret must no longer verify
	require.NoError(t, svc.ContinueEnrollment("user123"))
	oldCode, err := totp.ComputeCode(first.Secret, time.Now())
	require.NoError(t, err)
	err = svc.VerifyEnrollment(context.Background(), "user123", oldCode)
	if err == nil {
		// Distinct secrets can occasionally produce the same code
		newCode, err := totp.ComputeCode(second.Secret, time.Now())
		require.NoError(t, err)
		assert.Equal(t, oldCode, newCode)
	} else {
		assert.Equal(t, models.ErrInvalidCode, err)
	}
}

// ============================================================================
// VerifyEnrollment Tests
// ============================================================================

func TestTwoFactorService_VerifyEnrollment_Success(t *testing.T) {
	var persistedEnabled bool
	var persistedSecret *string
	gateway := &MockEnrollmentGateway{
		WriteEnrollmentFunc: func(ctx context.Context, accountID string, enabled bool, secret *string) error {
			persistedEnabled = enabled
			persistedSecret = secret
			return nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ContinueEnrollment("user123"))

	code, err := totp.ComputeCode(setup.Secret, time.Now())
	require.NoError(t, err)

	err = svc.VerifyEnrollment(context.Background(), "user123", code)

	require.NoError(t, err)
	assert.True(t, persistedEnabled)
	require.NotNil(t, persistedSecret)
	assert.Equal(t, setup.Secret, *persistedSecret)

	// Session is gone once the enrollment is confirmed
	err = svc.VerifyEnrollment(context.Background(), "user123", code)
	assert.Equal(t, models.ErrEnrollmentNotFound, err)
}

func TestTwoFactorService_VerifyEnrollment_WrongCode(t *testing.T) {
	writes := 0
	gateway := &MockEnrollmentGateway{
		WriteEnrollmentFunc: func(ctx context.Context, accountID string, enabled bool, secret *string) error {
			writes++
			return nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ContinueEnrollment("user123"))

	wrongCode, err := totp.ComputeCode(setup.Secret, time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	err = svc.VerifyEnrollment(context.Background(), "user123", wrongCode)

	assert.Equal(t, models.ErrInvalidCode, err)
	assert.Zero(t, writes)

	// Session survives a failed attempt so a correct code still works
	code, err := totp.ComputeCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEnrollment(context.Background(), "user123", code))
	assert.Equal(t, 1, writes)
}

func TestTwoFactorService_VerifyEnrollment_BeforeContinue(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, 15*time.Minute)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)

	code, err := totp.ComputeCode(setup.Secret, time.Now())
	require.NoError(t, err)

	err = svc.VerifyEnrollment(context.Background(), "user123", code)
	assert.Equal(t, models.ErrNotAwaitingCode, err)
}

func TestTwoFactorService_VerifyEnrollment_NoSession(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, 15*time.Minute)

	err := svc.VerifyEnrollment(context.Background(), "user123", "123456")
	assert.Equal(t, models.ErrEnrollmentNotFound, err)
}

func TestTwoFactorService_VerifyEnrollment_Expired(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, -1*time.Second)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)

	code, err := totp.ComputeCode(setup.Secret, time.Now())
	require.NoError(t, err)

	err = svc.VerifyEnrollment(context.Background(), "user123", code)
	assert.Equal(t, models.ErrEnrollmentExpired, err)
}

func TestTwoFactorService_VerifyEnrollment_PersistFailureKeepsSession(t *testing.T) {
	failWrites := true
	gateway := &MockEnrollmentGateway{
		WriteEnrollmentFunc: func(ctx context.Context, accountID string, enabled bool, secret *string) error {
			if failWrites {
				return models.ErrInternalServer
			}
			return nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ContinueEnrollment("user123"))

	code, err := totp.ComputeCode(setup.Secret, time.Now())
	require.NoError(t, err)

	err = svc.VerifyEnrollment(context.Background(), "user123", code)
	assert.Equal(t, models.ErrInternalServer, err)

	// Retry with the same secret succeeds once storage recovers
	failWrites = false
	require.NoError(t, svc.VerifyEnrollment(context.Background(), "user123", code))
}

// ============================================================================
// CancelEnrollment Tests
// ============================================================================

func TestTwoFactorService_CancelEnrollment_DiscardsSession(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, 15*time.Minute)

	setup, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ContinueEnrollment("user123"))

	svc.CancelEnrollment("user123")

	code, err := totp.ComputeCode(setup.Secret, time.Now())
	require.NoError(t, err)
	err = svc.VerifyEnrollment(context.Background(), "user123", code)
	assert.Equal(t, models.ErrEnrollmentNotFound, err)
}

func TestTwoFactorService_CancelEnrollment_LeavesPersistedStateAlone(t *testing.T) {
	writes := 0
	gateway := &MockEnrollmentGateway{
		WriteEnrollmentFunc: func(ctx context.Context, accountID string, enabled bool, secret *string) error {
			writes++
			return nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	_, err := svc.BeginEnrollment(context.Background(), "user123", "user@example.com")
	require.NoError(t, err)

	svc.CancelEnrollment("user123")
	svc.CancelEnrollment("user123") // unknown account is a no-op

	assert.Zero(t, writes)
}

// ============================================================================
// Disable Tests
// ============================================================================

func TestTwoFactorService_Disable_ClearsSecret(t *testing.T) {
	var gotEnabled bool = true
	var gotSecret *string = new(string)
	gateway := &MockEnrollmentGateway{
		WriteEnrollmentFunc: func(ctx context.Context, accountID string, enabled bool, secret *string) error {
			gotEnabled = enabled
			gotSecret = secret
			return nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	err := svc.Disable(context.Background(), "user123")

	require.NoError(t, err)
	assert.False(t, gotEnabled)
	assert.Nil(t, gotSecret)
}

func TestTwoFactorService_Disable_WhenNotEnrolled(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, 15*time.Minute)

	err := svc.Disable(context.Background(), "user123")
	assert.NoError(t, err)
}

// ============================================================================
// Status Tests
// ============================================================================

func TestTwoFactorService_Status(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"
	gateway := &MockEnrollmentGateway{
		ReadEnrollmentFunc: func(ctx context.Context, accountID string) (models.TwoFactorEnrollment, error) {
			if accountID == "enrolled" {
				return models.TwoFactorEnrollment{Enabled: true, Secret: &secret}, nil
			}
			return models.TwoFactorEnrollment{}, nil
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	enabled, err := svc.Status(context.Background(), "enrolled")
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = svc.Status(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestTwoFactorService_Status_MissingProfile(t *testing.T) {
	gateway := &MockEnrollmentGateway{
		ReadEnrollmentFunc: func(ctx context.Context, accountID string) (models.TwoFactorEnrollment, error) {
			return models.TwoFactorEnrollment{}, models.ErrNotFound
		},
	}
	svc := newTwoFactorService(gateway, 15*time.Minute)

	enabled, err := svc.Status(context.Background(), "user123")
	require.NoError(t, err)
	assert.False(t, enabled)
}

// ============================================================================
// SweepExpired Tests
// ============================================================================

func TestTwoFactorService_SweepExpired(t *testing.T) {
	svc := newTwoFactorService(&MockEnrollmentGateway{}, -1*time.Second)

	_, err := svc.BeginEnrollment(context.Background(), "user1", "a@example.com")
	require.NoError(t, err)
	_, err = svc.BeginEnrollment(context.Background(), "user2", "b@example.com")
	require.NoError(t, err)

	assert.Equal(t, 2, svc.SweepExpired())
	assert.Equal(t, 0, svc.SweepExpired())
}
