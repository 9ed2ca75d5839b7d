package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job statuses.
const (
	JobStatusDraft  = "draft"
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Job is a position posted by a company.
type Job struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CompanyID       uuid.UUID       `json:"company_id" db:"company_id"`
	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	Skills          pq.StringArray  `json:"skills" db:"skills"`
	Location        sql.NullString  `json:"location" db:"location"`
	LocationType    sql.NullString  `json:"location_type" db:"location_type"`
	EmploymentType  sql.NullString  `json:"employment_type" db:"employment_type"`
	EducationLevel  sql.NullString  `json:"education_level" db:"education_level"`
	ExperienceYears sql.NullFloat64 `json:"experience_years" db:"experience_years"`
	SalaryMin       sql.NullInt32   `json:"salary_min" db:"salary_min"`
	SalaryMax       sql.NullInt32   `json:"salary_max" db:"salary_max"`
	SalaryCurrency  sql.NullString  `json:"salary_currency" db:"salary_currency"`
	Status          string          `json:"status" db:"status"`
	Embedding       pq.Float64Array `json:"-" db:"embedding"`
	EmbeddedAt      sql.NullTime    `json:"-" db:"embedded_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	// Joined company name, populated by listing queries.
	CompanyName sql.NullString `json:"company_name,omitempty" db:"company_name"`
}

// JobRequest is the API request for creating/updating a job.
type JobRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Skills          []string `json:"skills"`
	Location        *string  `json:"location"`
	LocationType    *string  `json:"location_type"`
	EmploymentType  *string  `json:"employment_type"`
	EducationLevel  *string  `json:"education_level"`
	ExperienceYears *float64 `json:"experience_years"`
	SalaryMin       *int     `json:"salary_min"`
	SalaryMax       *int     `json:"salary_max"`
	SalaryCurrency  *string  `json:"salary_currency"`
	Status          *string  `json:"status"`
}

// JobFilter holds job listing filters.
type JobFilter struct {
	Query          string
	Location       string
	Skills         []string
	EmploymentType string
	SalaryMin      int
	Status         string
	CompanyID      uuid.UUID
	Limit          int
	Offset         int
}

// JobListResponse is a paginated job listing.
type JobListResponse struct {
	Jobs   []Job `json:"jobs"`
	Total  int   `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
