package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Job Operations ====================

// GetJob retrieves a job by ID, with the company name joined in.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.db.GetContext(ctx, &job, `
		SELECT j.*, c.name AS company_name
		FROM jobs j
		JOIN company_profiles c ON c.id = j.company_id
		WHERE j.id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// CreateJob creates a new job posting.
func (s *Store) CreateJob(ctx context.Context, companyID uuid.UUID, req *models.JobRequest) (*models.Job, error) {
	status := models.JobStatusDraft
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}

	var job models.Job
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO jobs (
			company_id, title, description, skills, location, location_type,
			employment_type, education_level, experience_years,
			salary_min, salary_max, salary_currency, status
		) VALUES ($1, $2, $3, COALESCE($4::TEXT[], '{}'), $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING *`,
		companyID, req.Title, req.Description, pq.Array(req.Skills),
		req.Location, req.LocationType, req.EmploymentType,
		req.EducationLevel, req.ExperienceYears,
		req.SalaryMin, req.SalaryMax, req.SalaryCurrency, status,
	).StructScan(&job)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &job, nil
}

// UpdateJob updates a job posting.
func (s *Store) UpdateJob(ctx context.Context, id uuid.UUID, req *models.JobRequest) (*models.Job, error) {
	var job models.Job
	err := s.db.QueryRowxContext(ctx, `
		UPDATE jobs SET
			title = $1, description = $2, skills = COALESCE($3::TEXT[], '{}'), location = $4, location_type = $5,
			employment_type = $6, education_level = $7, experience_years = $8,
			salary_min = $9, salary_max = $10, salary_currency = $11,
			status = COALESCE($12, status),
			updated_at = NOW()
		WHERE id = $13
		RETURNING *`,
		req.Title, req.Description, pq.Array(req.Skills), req.Location, req.LocationType,
		req.EmploymentType, req.EducationLevel, req.ExperienceYears,
		req.SalaryMin, req.SalaryMax, req.SalaryCurrency,
		req.Status, id,
	).StructScan(&job)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return &job, nil
}

// DeleteJob deletes a job posting.
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = $1", id)
	return err
}

// UpdateJobEmbedding stores a freshly computed job embedding.
func (s *Store) UpdateJobEmbedding(ctx context.Context, jobID uuid.UUID, embedding []float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET embedding = $1, embedded_at = NOW()
		WHERE id = $2`,
		pq.Array(embedding), jobID,
	)
	return err
}

// ListJobs returns jobs matching the filter, with total count for pagination.
func (s *Store) ListJobs(ctx context.Context, filter *models.JobFilter) ([]models.Job, int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND j.status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.CompanyID != uuid.Nil {
		where += fmt.Sprintf(" AND j.company_id = $%d", idx)
		args = append(args, filter.CompanyID)
		idx++
	}
	if filter.Query != "" {
		where += fmt.Sprintf(" AND (j.title ILIKE $%d OR j.description ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Query+"%")
		idx++
	}
	if filter.Location != "" {
		where += fmt.Sprintf(" AND j.location ILIKE $%d", idx)
		args = append(args, "%"+filter.Location+"%")
		idx++
	}
	if len(filter.Skills) > 0 {
		where += fmt.Sprintf(" AND j.skills && $%d", idx)
		args = append(args, pq.Array(filter.Skills))
		idx++
	}
	if filter.EmploymentType != "" {
		where += fmt.Sprintf(" AND j.employment_type = $%d", idx)
		args = append(args, filter.EmploymentType)
		idx++
	}
	if filter.SalaryMin > 0 {
		where += fmt.Sprintf(" AND j.salary_max >= $%d", idx)
		args = append(args, filter.SalaryMin)
		idx++
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM jobs j "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT j.*, c.name AS company_name
		FROM jobs j
		JOIN company_profiles c ON c.id = j.company_id
		%s
		ORDER BY j.created_at DESC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, filter.Offset)

	var jobs []models.Job
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

// ListOpenJobsWithEmbeddings returns open jobs that have an embedding,
// for match computation.
func (s *Store) ListOpenJobsWithEmbeddings(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.SelectContext(ctx, &jobs, `
		SELECT j.*, c.name AS company_name
		FROM jobs j
		JOIN company_profiles c ON c.id = j.company_id
		WHERE j.status = 'open' AND j.embedding IS NOT NULL
		ORDER BY j.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs with embeddings: %w", err)
	}
	return jobs, nil
}
