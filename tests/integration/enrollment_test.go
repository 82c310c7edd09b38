package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobprep/jobprep/internal/models"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") != "true" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	db, err := SetupTestDatabase(ctx)
	if err != nil {
		panic(err)
	}
	testDB = db

	code := m.Run()

	testDB.Teardown(ctx)
	os.Exit(code)
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("set INTEGRATION_TESTS=true to run integration tests")
	}
	require.NoError(t, testDB.CleanupTables(context.Background()))
}

func TestEnrollmentGateway_RoundTrip(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	_, profileRepo, _, _, _ := InitializeRepositories(testDB.DB)

	email, password := TestUser("enroll")
	user, err := SeedUser(ctx, testDB.Pool, email, password)
	require.NoError(t, err)

	enrollment, err := profileRepo.ReadEnrollment(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, enrollment.Enrolled())

	secret := "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"
	require.NoError(t, profileRepo.WriteEnrollment(ctx, user.ID, true, &secret))

	enrollment, err = profileRepo.ReadEnrollment(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, enrollment.Enrolled())
	assert.Equal(t, secret, *enrollment.Secret)

	accountID, byEmail, err := profileRepo.ReadEnrollmentByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, accountID)
	assert.True(t, byEmail.Enrolled())
}

func TestEnrollmentGateway_DisableClearsSecret(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	_, profileRepo, _, _, _ := InitializeRepositories(testDB.DB)

	email, password := TestUser("disable")
	secret := "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"
	user, err := SeedEnrolledUser(ctx, testDB.Pool, email, password, secret)
	require.NoError(t, err)

	require.NoError(t, profileRepo.WriteEnrollment(ctx, user.ID, false, nil))

	enrollment, err := profileRepo.ReadEnrollment(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, enrollment.Enabled)
	assert.Nil(t, enrollment.Secret)
}

func TestEnrollmentGateway_CheckConstraintRejectsEnabledWithoutSecret(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	email, password := TestUser("constraint")
	user, err := SeedUser(ctx, testDB.Pool, email, password)
	require.NoError(t, err)

	// Bypass the repository to confirm the schema itself holds the invariant.
	_, err = testDB.Pool.Exec(ctx,
		"UPDATE profiles SET two_factor_enabled = true, two_factor_secret = NULL WHERE id = $1",
		user.ID,
	)
	assert.Error(t, err)
}

func TestPasswordResetRepository_Lifecycle(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	_, _, _, resetRepo, _ := InitializeRepositories(testDB.DB)

	email, password := TestUser("reset")
	user, err := SeedUser(ctx, testDB.Pool, email, password)
	require.NoError(t, err)

	tokenHash := uuid.New().String()
	created, err := resetRepo.Create(ctx, user.ID, tokenHash, time.Now().Add(time.Hour))
	require.NoError(t, err)

	fetched, err := resetRepo.GetByTokenHash(ctx, tokenHash)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Nil(t, fetched.UsedAt)

	require.NoError(t, resetRepo.MarkUsed(ctx, fetched.ID))

	fetched, err = resetRepo.GetByTokenHash(ctx, tokenHash)
	require.NoError(t, err)
	assert.NotNil(t, fetched.UsedAt)
}

func TestAnalysisRepository_HistoryKeepsFullRecord(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	_, _, _, _, analysisRepo := InitializeRepositories(testDB.DB)

	email, password := TestUser("analysis")
	user, err := SeedUser(ctx, testDB.Pool, email, password)
	require.NoError(t, err)

	stored := &models.ResumeAnalysis{
		UserID:          user.ID,
		JobDescription:  "Looking for React and AWS experience",
		ATSScore:        72,
		MatchedKeywords: []string{"react"},
		MissingKeywords: []string{"aws"},
		SpellingErrors:  []string{},
		Improvements:    []string{"Add these key skills to your resume: aws"},
		KeywordDensity:  map[string]float64{"react": 12.5},
		Sections:        models.SectionAnalysis{HasContactInfo: true, HasSkills: true},
	}
	require.NoError(t, analysisRepo.Create(ctx, stored))

	history, err := analysisRepo.ListByUserID(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)

	got := history[0]
	assert.Equal(t, 72, got.ATSScore)
	assert.Equal(t, map[string]float64{"react": 12.5}, got.KeywordDensity)
	assert.True(t, got.Sections.HasContactInfo)
	assert.True(t, got.Sections.HasSkills)
	assert.False(t, got.Sections.HasEducation)
}

func TestTokenRevocationRepository_CleanupExpired(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	_, _, revokeRepo, _, _ := InitializeRepositories(testDB.DB)

	email, password := TestUser("revoke")
	user, err := SeedUser(ctx, testDB.Pool, email, password)
	require.NoError(t, err)

	expiredJTI := uuid.New().String()
	liveJTI := uuid.New().String()
	require.NoError(t, revokeRepo.RevokeToken(ctx, expiredJTI, user.ID, "access", time.Now().Add(-time.Hour), "signout"))
	require.NoError(t, revokeRepo.RevokeToken(ctx, liveJTI, user.ID, "access", time.Now().Add(time.Hour), "signout"))

	removed, err := revokeRepo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err := revokeRepo.IsTokenRevoked(ctx, liveJTI)
	require.NoError(t, err)
	assert.True(t, revoked)
}
