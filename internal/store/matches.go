package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Match Operations ====================

// UpsertMatch inserts or refreshes a score for a graduate/job pair.
func (s *Store) UpsertMatch(ctx context.Context, graduateID, jobID uuid.UUID, score float64, factors json.RawMessage) (*models.Match, error) {
	if factors == nil {
		factors = json.RawMessage("{}")
	}
	var match models.Match
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO matches (graduate_id, job_id, score, factors)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (graduate_id, job_id) DO UPDATE
		SET score = EXCLUDED.score, factors = EXCLUDED.factors, updated_at = NOW()
		RETURNING *`,
		graduateID, jobID, score, factors,
	).StructScan(&match)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert match: %w", err)
	}
	return &match, nil
}

// ListMatchesByGraduate returns a graduate's stored matches, best first.
func (s *Store) ListMatchesByGraduate(ctx context.Context, graduateID uuid.UUID, minScore float64, limit int) ([]models.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var matches []models.Match
	err := s.db.SelectContext(ctx, &matches, `
		SELECT m.*, j.title AS job_title, c.name AS company_name
		FROM matches m
		JOIN jobs j ON j.id = m.job_id
		JOIN company_profiles c ON c.id = j.company_id
		WHERE m.graduate_id = $1 AND m.score >= $2 AND j.status = 'open'
		ORDER BY m.score DESC
		LIMIT $3`,
		graduateID, minScore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// ListMatchesByJob returns candidate graduates for a job, best first.
func (s *Store) ListMatchesByJob(ctx context.Context, jobID uuid.UUID, minScore float64, limit int) ([]models.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var matches []models.Match
	err := s.db.SelectContext(ctx, &matches, `
		SELECT m.*, TRIM(CONCAT(g.first_name, ' ', g.last_name)) AS graduate_name
		FROM matches m
		JOIN graduate_profiles g ON g.id = m.graduate_id
		WHERE m.job_id = $1 AND m.score >= $2
		ORDER BY m.score DESC
		LIMIT $3`,
		jobID, minScore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job matches: %w", err)
	}
	return matches, nil
}

// DeleteMatchesByJob removes stored matches when a job closes or is deleted.
func (s *Store) DeleteMatchesByJob(ctx context.Context, jobID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE job_id = $1", jobID); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}

// ListGraduatesWithEmbeddings returns graduate profiles whose embeddings are
// populated, for batch match recomputation.
func (s *Store) ListGraduatesWithEmbeddings(ctx context.Context) ([]models.GraduateProfile, error) {
	var profiles []models.GraduateProfile
	err := s.db.SelectContext(ctx, &profiles,
		"SELECT * FROM graduate_profiles WHERE embedding IS NOT NULL",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded graduates: %w", err)
	}
	return profiles, nil
}

// ==================== Assessment Operations ====================

// CreateAssessment stores a freshly generated question set for a graduate.
// The attempt number is derived from prior assessments for the same skills
// snapshot, counting completed attempts only.
func (s *Store) CreateAssessment(ctx context.Context, graduateID uuid.UUID, skills []string, questions json.RawMessage) (*models.Assessment, error) {
	var attempt int
	err := s.db.GetContext(ctx, &attempt,
		"SELECT COALESCE(MAX(attempt), 0) + 1 FROM assessments WHERE graduate_id = $1",
		graduateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute attempt number: %w", err)
	}

	var assessment models.Assessment
	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO assessments (graduate_id, skills, attempt, questions, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING *`,
		graduateID, pq.Array(skills), attempt, questions,
	).StructScan(&assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return &assessment, nil
}

// GetAssessment retrieves an assessment by ID.
func (s *Store) GetAssessment(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	err := s.db.GetContext(ctx, &assessment, "SELECT * FROM assessments WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &assessment, nil
}

// GetLatestPendingAssessment returns the newest assessment the graduate has
// not yet submitted, or nil.
func (s *Store) GetLatestPendingAssessment(ctx context.Context, graduateID uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	err := s.db.GetContext(ctx, &assessment, `
		SELECT * FROM assessments
		WHERE graduate_id = $1 AND completed_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`,
		graduateID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending assessment: %w", err)
	}
	return &assessment, nil
}

// CompleteAssessment records the graded score and completion time.
func (s *Store) CompleteAssessment(ctx context.Context, id uuid.UUID, score float64) (*models.Assessment, error) {
	var assessment models.Assessment
	err := s.db.QueryRowxContext(ctx, `
		UPDATE assessments
		SET score = $2, status = 'completed', completed_at = NOW()
		WHERE id = $1 AND completed_at IS NULL
		RETURNING *`,
		id, score,
	).StructScan(&assessment)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assessment already completed")
		}
		return nil, fmt.Errorf("failed to complete assessment: %w", err)
	}
	return &assessment, nil
}

// ListAssessmentsByGraduate returns a graduate's assessment history.
func (s *Store) ListAssessmentsByGraduate(ctx context.Context, graduateID uuid.UUID) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := s.db.SelectContext(ctx, &assessments,
		"SELECT * FROM assessments WHERE graduate_id = $1 ORDER BY created_at DESC",
		graduateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}
