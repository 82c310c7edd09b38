package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobprep/jobprep/internal/database"
	"github.com/jobprep/jobprep/internal/models"
)

// ProfileRepository persists the user's job-search profile, including the
// two-factor enrollment fields. It is the single source of truth for
// enrollment state.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{pool: db.Pool}
}

func scanProfileRow(scanner rowScanner) (*models.Profile, error) {
	var p models.Profile

	err := scanner.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Skills, &p.PreferredLocations,
		&p.ResumeURL, &p.Certifications, &p.Achievements, &p.MobileNumber,
		&p.TwoFactorEnabled, &p.TwoFactorSecret,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &p, nil
}

const profileColumns = `
	id, email, full_name, skills, preferred_locations,
	resume_url, certifications, achievements, mobile_number,
	two_factor_enabled, two_factor_secret,
	created_at, updated_at
`

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	return scanProfileRow(r.pool.QueryRow(ctx, query, accountID))
}

// Upsert inserts or updates the profile record. Two-factor fields are never
// touched here; they change only through WriteEnrollment.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id, email, full_name, skills, preferred_locations, resume_url, certifications, achievements, mobile_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			skills = EXCLUDED.skills,
			preferred_locations = EXCLUDED.preferred_locations,
			resume_url = EXCLUDED.resume_url,
			certifications = EXCLUDED.certifications,
			achievements = EXCLUDED.achievements,
			mobile_number = EXCLUDED.mobile_number,
			updated_at = now()
		RETURNING ` + profileColumns

	return scanProfileRow(r.pool.QueryRow(ctx, query,
		p.ID, p.Email, p.FullName, p.Skills, p.PreferredLocations,
		p.ResumeURL, p.Certifications, p.Achievements, p.MobileNumber,
	))
}

// ReadEnrollment returns the persisted two-factor state for an account.
func (r *ProfileRepository) ReadEnrollment(ctx context.Context, accountID string) (models.TwoFactorEnrollment, error) {
	query := `SELECT two_factor_enabled, two_factor_secret FROM profiles WHERE id = $1`

	var e models.TwoFactorEnrollment
	err := r.pool.QueryRow(ctx, query, accountID).Scan(&e.Enabled, &e.Secret)
	if err != nil {
		return models.TwoFactorEnrollment{}, database.MapPostgresError(err)
	}

	return e, nil
}

// ReadEnrollmentByEmail is used by the sign-in gate, which only has the
// submitted email at that point.
func (r *ProfileRepository) ReadEnrollmentByEmail(ctx context.Context, email string) (string, models.TwoFactorEnrollment, error) {
	query := `SELECT id, two_factor_enabled, two_factor_secret FROM profiles WHERE email = $1`

	var accountID string
	var e models.TwoFactorEnrollment
	err := r.pool.QueryRow(ctx, query, email).Scan(&accountID, &e.Enabled, &e.Secret)
	if err != nil {
		return "", models.TwoFactorEnrollment{}, database.MapPostgresError(err)
	}

	return accountID, e, nil
}

// WriteEnrollment updates both two-factor fields in a single statement so
// they can never drift apart. Enabling requires a non-nil secret; disabling
// always clears the secret.
func (r *ProfileRepository) WriteEnrollment(ctx context.Context, accountID string, enabled bool, secret *string) error {
	if !enabled {
		secret = nil
	}

	query := `
		UPDATE profiles
		SET two_factor_enabled = $2, two_factor_secret = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, accountID, enabled, secret)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
