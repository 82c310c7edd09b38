package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobprep/jobprep/internal/database"
)

// TokenRevocationRepository tracks revoked JWT IDs so sign-out takes effect
// before token expiry.
type TokenRevocationRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRevocationRepository(db *database.DB) *TokenRevocationRepository {
	return &TokenRevocationRepository{pool: db.Pool}
}

func (r *TokenRevocationRepository) RevokeToken(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error {
	query := `
		INSERT INTO revoked_tokens (jti, user_id, token_type, expires_at, reason)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (jti) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, jti, userID, tokenType, expiresAt, reason)
	return database.MapPostgresError(err)
}

func (r *TokenRevocationRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	query := `SELECT 1 FROM revoked_tokens WHERE jti = $1`

	var one int
	err := r.pool.QueryRow(ctx, query, jti).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, database.MapPostgresError(err)
	}

	return true, nil
}

// CleanupExpired deletes revocation rows whose tokens have expired
// anyway.
func (r *TokenRevocationRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < now()`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return tag.RowsAffected(), nil
}
