package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Interview statuses.
const (
	InterviewStatusScheduled = "scheduled"
	InterviewStatusCompleted = "completed"
	InterviewStatusCanceled  = "canceled"
	InterviewStatusNoShow    = "no_show"
)

// Interview is a scheduled interview for an application.
type Interview struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	ApplicationID   uuid.UUID      `json:"application_id" db:"application_id"`
	JobID           uuid.UUID      `json:"job_id" db:"job_id"`
	GraduateID      uuid.UUID      `json:"graduate_id" db:"graduate_id"`
	CompanyID       uuid.UUID      `json:"company_id" db:"company_id"`
	ScheduledAt     time.Time      `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"`
	MeetingURL      sql.NullString `json:"meeting_url" db:"meeting_url"`
	Status          string         `json:"status" db:"status"`
	Notes           sql.NullString `json:"notes" db:"notes"`

	// Calendly linkage, set when the slot was booked through Calendly.
	CalendlyEventURI   sql.NullString `json:"-" db:"calendly_event_uri"`
	CalendlyInviteeURI sql.NullString `json:"-" db:"calendly_invitee_uri"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	JobTitle     sql.NullString `json:"job_title,omitempty" db:"job_title"`
	CompanyName  sql.NullString `json:"company_name,omitempty" db:"company_name"`
	GraduateName sql.NullString `json:"graduate_name,omitempty" db:"graduate_name"`
}

// InterviewRequest schedules an interview directly.
type InterviewRequest struct {
	ApplicationID   uuid.UUID `json:"application_id" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingURL      *string   `json:"meeting_url"`
	Notes           *string   `json:"notes"`
}

// InterviewUpdateRequest reschedules or annotates an interview.
type InterviewUpdateRequest struct {
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	MeetingURL      *string    `json:"meeting_url"`
	Status          *string    `json:"status"`
	Notes           *string    `json:"notes"`
}
