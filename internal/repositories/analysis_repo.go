package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobprep/jobprep/internal/database"
	"github.com/jobprep/jobprep/internal/models"
)

// AnalysisRepository persists completed resume analyses for the history view.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(db *database.DB) *AnalysisRepository {
	return &AnalysisRepository{pool: db.Pool}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *models.ResumeAnalysis) error {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO resume_analyses (id, user_id, job_description, ats_score, matched_keywords, missing_keywords, spelling_errors, improvement_suggestions, keyword_density, section_analysis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.JobDescription, a.ATSScore,
		a.MatchedKeywords, a.MissingKeywords, a.SpellingErrors, a.Improvements,
		a.KeywordDensity, a.Sections,
		a.CreatedAt,
	)
	return database.MapPostgresError(err)
}

func (r *AnalysisRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error) {
	query := `
		SELECT id, user_id, job_description, ats_score, matched_keywords, missing_keywords, spelling_errors, improvement_suggestions, keyword_density, section_analysis, created_at
		FROM resume_analyses WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]*models.ResumeAnalysis, 0)
	for rows.Next() {
		var a models.ResumeAnalysis
		err := rows.Scan(
			&a.ID, &a.UserID, &a.JobDescription, &a.ATSScore,
			&a.MatchedKeywords, &a.MissingKeywords, &a.SpellingErrors, &a.Improvements,
			&a.KeywordDensity, &a.Sections,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return analyses, nil
}
