package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Graduate Profile Operations ====================

// GetGraduateProfile retrieves a graduate profile by user ID.
func (s *Store) GetGraduateProfile(ctx context.Context, userID uuid.UUID) (*models.GraduateProfile, error) {
	var profile models.GraduateProfile
	err := s.db.GetContext(ctx, &profile, "SELECT * FROM graduate_profiles WHERE user_id = $1", userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get graduate profile: %w", err)
	}
	return &profile, nil
}

// GetGraduateProfileByID retrieves a graduate profile by its own ID.
func (s *Store) GetGraduateProfileByID(ctx context.Context, id uuid.UUID) (*models.GraduateProfile, error) {
	var profile models.GraduateProfile
	err := s.db.GetContext(ctx, &profile, "SELECT * FROM graduate_profiles WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get graduate profile: %w", err)
	}
	return &profile, nil
}

// A nil skills parameter binds as SQL NULL. The statement supplies the
// empty-array default on insert and keeps the stored value on update.
const upsertGraduateProfileQuery = `
		INSERT INTO graduate_profiles (
			user_id, first_name, last_name, headline, summary, skills,
			education_level, field_of_study, graduation_year, experience_years,
			location, phone, website, linkedin_url, github_url, resume_url
		) VALUES ($1, $2, $3, $4, $5, COALESCE($6::TEXT[], '{}'), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = COALESCE(EXCLUDED.first_name, graduate_profiles.first_name),
			last_name = COALESCE(EXCLUDED.last_name, graduate_profiles.last_name),
			headline = COALESCE(EXCLUDED.headline, graduate_profiles.headline),
			summary = COALESCE(EXCLUDED.summary, graduate_profiles.summary),
			skills = COALESCE($6::TEXT[], graduate_profiles.skills),
			education_level = COALESCE(EXCLUDED.education_level, graduate_profiles.education_level),
			field_of_study = COALESCE(EXCLUDED.field_of_study, graduate_profiles.field_of_study),
			graduation_year = COALESCE(EXCLUDED.graduation_year, graduate_profiles.graduation_year),
			experience_years = COALESCE(EXCLUDED.experience_years, graduate_profiles.experience_years),
			location = COALESCE(EXCLUDED.location, graduate_profiles.location),
			phone = COALESCE(EXCLUDED.phone, graduate_profiles.phone),
			website = COALESCE(EXCLUDED.website, graduate_profiles.website),
			linkedin_url = COALESCE(EXCLUDED.linkedin_url, graduate_profiles.linkedin_url),
			github_url = COALESCE(EXCLUDED.github_url, graduate_profiles.github_url),
			resume_url = COALESCE(EXCLUDED.resume_url, graduate_profiles.resume_url),
			updated_at = NOW()
		RETURNING *`

// UpsertGraduateProfile creates or updates a graduate profile.
func (s *Store) UpsertGraduateProfile(ctx context.Context, userID uuid.UUID, req *models.GraduateProfileRequest) (*models.GraduateProfile, error) {
	var profile models.GraduateProfile
	err := s.db.QueryRowxContext(ctx, upsertGraduateProfileQuery,
		userID,
		req.FirstName, req.LastName, req.Headline, req.Summary, skillsArray(req.Skills),
		req.EducationLevel, req.FieldOfStudy, req.GraduationYear, req.ExperienceYears,
		req.Location, req.Phone, req.Website, req.LinkedInURL, req.GithubURL, req.ResumeURL,
	).StructScan(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert graduate profile: %w", err)
	}
	return &profile, nil
}

// UpdateGraduateEmbedding stores a freshly computed profile embedding.
func (s *Store) UpdateGraduateEmbedding(ctx context.Context, profileID uuid.UUID, embedding []float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE graduate_profiles SET embedding = $1, embedded_at = NOW(), updated_at = NOW()
		WHERE id = $2`,
		pq.Array(embedding), profileID,
	)
	return err
}

// UpdateGraduateAssessmentScore records the latest assessment score.
func (s *Store) UpdateGraduateAssessmentScore(ctx context.Context, profileID uuid.UUID, score float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE graduate_profiles SET assessment_score = $1, updated_at = NOW()
		WHERE id = $2`,
		score, profileID,
	)
	return err
}

// ==================== Company Profile Operations ====================

// GetCompanyProfile retrieves a company profile by user ID.
func (s *Store) GetCompanyProfile(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := s.db.GetContext(ctx, &profile, "SELECT * FROM company_profiles WHERE user_id = $1", userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return &profile, nil
}

// GetCompanyProfileByID retrieves a company profile by its own ID.
func (s *Store) GetCompanyProfileByID(ctx context.Context, id uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := s.db.GetContext(ctx, &profile, "SELECT * FROM company_profiles WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return &profile, nil
}

// UpsertCompanyProfile creates or updates a company profile.
func (s *Store) UpsertCompanyProfile(ctx context.Context, userID uuid.UUID, req *models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	name := ""
	if req.Name != nil {
		name = *req.Name
	}

	var profile models.CompanyProfile
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO company_profiles (
			user_id, name, description, industry, website, location, logo_url, company_size
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE company_profiles.name END,
			description = COALESCE(EXCLUDED.description, company_profiles.description),
			industry = COALESCE(EXCLUDED.industry, company_profiles.industry),
			website = COALESCE(EXCLUDED.website, company_profiles.website),
			location = COALESCE(EXCLUDED.location, company_profiles.location),
			logo_url = COALESCE(EXCLUDED.logo_url, company_profiles.logo_url),
			company_size = COALESCE(EXCLUDED.company_size, company_profiles.company_size),
			updated_at = NOW()
		RETURNING *`,
		userID, name, req.Description, req.Industry, req.Website,
		req.Location, req.LogoURL, req.CompanySize,
	).StructScan(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert company profile: %w", err)
	}
	return &profile, nil
}

// SaveCalendlyCredentials stores the OAuth tokens for a connected Calendly account.
func (s *Store) SaveCalendlyCredentials(ctx context.Context, companyID uuid.UUID, ownerURI, schedulingURL, accessToken, refreshToken string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE company_profiles SET
			calendly_owner_uri = $1,
			calendly_scheduling_url = $2,
			calendly_access_token = $3,
			calendly_refresh_token = $4,
			calendly_token_expires_at = $5,
			updated_at = NOW()
		WHERE id = $6`,
		ownerURI, schedulingURL, accessToken, refreshToken, expiresAt, companyID,
	)
	return err
}

// ClearCalendlyCredentials disconnects the Calendly account.
func (s *Store) ClearCalendlyCredentials(ctx context.Context, companyID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE company_profiles SET
			calendly_owner_uri = NULL,
			calendly_scheduling_url = NULL,
			calendly_access_token = NULL,
			calendly_refresh_token = NULL,
			calendly_token_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $1`,
		companyID,
	)
	return err
}

// skillsArray maps a nil slice to SQL NULL so the upsert can tell an
// omitted skills field from an explicit empty list.
func skillsArray(skills []string) interface{} {
	if skills == nil {
		return nil
	}
	return pq.Array(skills)
}
