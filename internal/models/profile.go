package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GraduateProfile is a job-seeking user's career profile.
type GraduateProfile struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	FirstName       sql.NullString  `json:"first_name" db:"first_name"`
	LastName        sql.NullString  `json:"last_name" db:"last_name"`
	Headline        sql.NullString  `json:"headline" db:"headline"`
	Summary         sql.NullString  `json:"summary" db:"summary"`
	Skills          pq.StringArray  `json:"skills" db:"skills"`
	EducationLevel  sql.NullString  `json:"education_level" db:"education_level"`
	FieldOfStudy    sql.NullString  `json:"field_of_study" db:"field_of_study"`
	GraduationYear  sql.NullInt32   `json:"graduation_year" db:"graduation_year"`
	ExperienceYears sql.NullFloat64 `json:"experience_years" db:"experience_years"`
	Location        sql.NullString  `json:"location" db:"location"`
	Phone           sql.NullString  `json:"phone" db:"phone"`
	Website         sql.NullString  `json:"website" db:"website"`
	LinkedInURL     sql.NullString  `json:"linkedin_url" db:"linkedin_url"`
	GithubURL       sql.NullString  `json:"github_url" db:"github_url"`
	ResumeURL       sql.NullString  `json:"resume_url" db:"resume_url"`
	AssessmentScore sql.NullFloat64 `json:"assessment_score" db:"assessment_score"`
	Embedding       pq.Float64Array `json:"-" db:"embedding"`
	EmbeddedAt      sql.NullTime    `json:"-" db:"embedded_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// GraduateProfileRequest is the API request for creating/updating a graduate profile.
type GraduateProfileRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Headline        *string  `json:"headline"`
	Summary         *string  `json:"summary"`
	Skills          []string `json:"skills"`
	EducationLevel  *string  `json:"education_level"`
	FieldOfStudy    *string  `json:"field_of_study"`
	GraduationYear  *int     `json:"graduation_year"`
	ExperienceYears *float64 `json:"experience_years"`
	Location        *string  `json:"location"`
	Phone           *string  `json:"phone"`
	Website         *string  `json:"website"`
	LinkedInURL     *string  `json:"linkedin_url"`
	GithubURL       *string  `json:"github_url"`
	ResumeURL       *string  `json:"resume_url"`
}

// CompanyProfile is an employer profile that posts jobs.
type CompanyProfile struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description" db:"description"`
	Industry    sql.NullString `json:"industry" db:"industry"`
	Website     sql.NullString `json:"website" db:"website"`
	Location    sql.NullString `json:"location" db:"location"`
	LogoURL     sql.NullString `json:"logo_url" db:"logo_url"`
	CompanySize sql.NullString `json:"company_size" db:"company_size"`

	// Calendly integration state; tokens never leave the API.
	CalendlyOwnerURI       sql.NullString `json:"-" db:"calendly_owner_uri"`
	CalendlySchedulingURL  sql.NullString `json:"calendly_scheduling_url" db:"calendly_scheduling_url"`
	CalendlyAccessToken    sql.NullString `json:"-" db:"calendly_access_token"`
	CalendlyRefreshToken   sql.NullString `json:"-" db:"calendly_refresh_token"`
	CalendlyTokenExpiresAt sql.NullTime   `json:"-" db:"calendly_token_expires_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Connected reports whether the company has a linked Calendly account.
func (c *CompanyProfile) CalendlyConnected() bool {
	return c.CalendlyAccessToken.Valid && c.CalendlyAccessToken.String != ""
}

// CompanyProfileRequest is the API request for creating/updating a company profile.
type CompanyProfileRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
	Location    *string `json:"location"`
	LogoURL     *string `json:"logo_url"`
	CompanySize *string `json:"company_size"`
}
