package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Application statuses.
const (
	ApplicationStatusPending     = "pending"
	ApplicationStatusReviewing   = "reviewing"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusInterview   = "interview"
	ApplicationStatusOffered     = "offered"
	ApplicationStatusHired       = "hired"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusWithdrawn   = "withdrawn"
)

// applicationTransitions defines the allowed status moves a company can make.
var applicationTransitions = map[string][]string{
	ApplicationStatusPending:     {ApplicationStatusReviewing, ApplicationStatusRejected},
	ApplicationStatusReviewing:   {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusInterview, ApplicationStatusRejected},
	ApplicationStatusInterview:   {ApplicationStatusOffered, ApplicationStatusRejected},
	ApplicationStatusOffered:     {ApplicationStatusHired, ApplicationStatusRejected},
}

// CanTransitionApplication reports whether moving from one status to another is allowed.
func CanTransitionApplication(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application is a graduate's application to a job.
type Application struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	JobID       uuid.UUID      `json:"job_id" db:"job_id"`
	GraduateID  uuid.UUID      `json:"graduate_id" db:"graduate_id"`
	Status      string         `json:"status" db:"status"`
	CoverLetter sql.NullString `json:"cover_letter" db:"cover_letter"`
	Feedback    sql.NullString `json:"feedback" db:"feedback"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`

	// Joined fields, populated by listing queries.
	JobTitle      sql.NullString `json:"job_title,omitempty" db:"job_title"`
	CompanyName   sql.NullString `json:"company_name,omitempty" db:"company_name"`
	GraduateName  sql.NullString `json:"graduate_name,omitempty" db:"graduate_name"`
	GraduateEmail sql.NullString `json:"graduate_email,omitempty" db:"graduate_email"`
}

// ApplyRequest creates an application.
type ApplyRequest struct {
	JobID       uuid.UUID `json:"job_id" binding:"required"`
	CoverLetter *string   `json:"cover_letter"`
}

// ApplicationStatusRequest moves an application to a new status.
type ApplicationStatusRequest struct {
	Status           string `json:"status" binding:"required"`
	GenerateFeedback bool   `json:"generate_feedback"`
}

// Offer statuses.
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusDeclined  = "declined"
	OfferStatusExpired   = "expired"
	OfferStatusWithdrawn = "withdrawn"
)

// Offer is a job offer extended to a graduate.
type Offer struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	ApplicationID uuid.UUID      `json:"application_id" db:"application_id"`
	JobID         uuid.UUID      `json:"job_id" db:"job_id"`
	GraduateID    uuid.UUID      `json:"graduate_id" db:"graduate_id"`
	CompanyID     uuid.UUID      `json:"company_id" db:"company_id"`
	Salary        sql.NullInt32  `json:"salary" db:"salary"`
	Currency      sql.NullString `json:"currency" db:"currency"`
	StartDate     sql.NullTime   `json:"start_date" db:"start_date"`
	ExpiresAt     sql.NullTime   `json:"expires_at" db:"expires_at"`
	Status        string         `json:"status" db:"status"`
	Message       sql.NullString `json:"message" db:"message"`
	RespondedAt   sql.NullTime   `json:"responded_at" db:"responded_at"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`

	JobTitle    sql.NullString `json:"job_title,omitempty" db:"job_title"`
	CompanyName sql.NullString `json:"company_name,omitempty" db:"company_name"`
}

// Expired reports whether the offer's deadline has passed.
func (o *Offer) Expired(now time.Time) bool {
	return o.ExpiresAt.Valid && now.After(o.ExpiresAt.Time)
}

// OfferRequest extends an offer on an application.
type OfferRequest struct {
	ApplicationID uuid.UUID `json:"application_id" binding:"required"`
	Salary        *int      `json:"salary"`
	Currency      *string   `json:"currency"`
	StartDate     *string   `json:"start_date"`
	ExpiresAt     *string   `json:"expires_at"`
	Message       *string   `json:"message"`
}
