package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

const interviewSelect = `
	SELECT i.*,
		j.title AS job_title,
		c.name AS company_name,
		TRIM(CONCAT(g.first_name, ' ', g.last_name)) AS graduate_name
	FROM interviews i
	JOIN jobs j ON j.id = i.job_id
	JOIN company_profiles c ON c.id = i.company_id
	JOIN graduate_profiles g ON g.id = i.graduate_id`

// ==================== Interview Operations ====================

// GetInterview retrieves an interview by ID.
func (s *Store) GetInterview(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	err := s.db.GetContext(ctx, &interview, interviewSelect+" WHERE i.id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &interview, nil
}

// GetInterviewByCalendlyEvent finds an interview by its Calendly event URI.
func (s *Store) GetInterviewByCalendlyEvent(ctx context.Context, eventURI string) (*models.Interview, error) {
	var interview models.Interview
	err := s.db.GetContext(ctx, &interview,
		"SELECT * FROM interviews WHERE calendly_event_uri = $1", eventURI)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &interview, nil
}

// CreateInterview schedules an interview for an application.
func (s *Store) CreateInterview(ctx context.Context, app *models.Application, companyID uuid.UUID, scheduledAt time.Time, durationMinutes int, meetingURL, notes *string) (*models.Interview, error) {
	if durationMinutes <= 0 {
		durationMinutes = 45
	}

	var interview models.Interview
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO interviews (
			application_id, job_id, graduate_id, company_id,
			scheduled_at, duration_minutes, meeting_url, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled', $8)
		RETURNING *`,
		app.ID, app.JobID, app.GraduateID, companyID,
		scheduledAt, durationMinutes, meetingURL, notes,
	).StructScan(&interview)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return &interview, nil
}

// LinkCalendlyEvent attaches Calendly URIs to an interview booked through Calendly.
func (s *Store) LinkCalendlyEvent(ctx context.Context, interviewID uuid.UUID, eventURI, inviteeURI string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE interviews SET calendly_event_uri = $1, calendly_invitee_uri = $2, updated_at = NOW()
		WHERE id = $3`,
		eventURI, inviteeURI, interviewID,
	)
	return err
}

// UpdateInterview applies a partial update to an interview.
func (s *Store) UpdateInterview(ctx context.Context, id uuid.UUID, req *models.InterviewUpdateRequest) (*models.Interview, error) {
	var interview models.Interview
	err := s.db.QueryRowxContext(ctx, `
		UPDATE interviews SET
			scheduled_at = COALESCE($1, scheduled_at),
			duration_minutes = COALESCE($2, duration_minutes),
			meeting_url = COALESCE($3, meeting_url),
			status = COALESCE($4, status),
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $6
		RETURNING *`,
		req.ScheduledAt, req.DurationMinutes, req.MeetingURL, req.Status, req.Notes, id,
	).StructScan(&interview)
	if err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	return &interview, nil
}

// UpdateInterviewStatus sets the interview status.
func (s *Store) UpdateInterviewStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE interviews SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id,
	)
	return err
}

// ListInterviewsByGraduate returns a graduate's interviews, soonest first.
func (s *Store) ListInterviewsByGraduate(ctx context.Context, graduateID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := s.db.SelectContext(ctx, &interviews,
		interviewSelect+" WHERE i.graduate_id = $1 ORDER BY i.scheduled_at ASC", graduateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// ListInterviewsByCompany returns a company's interviews, soonest first.
func (s *Store) ListInterviewsByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := s.db.SelectContext(ctx, &interviews,
		interviewSelect+" WHERE i.company_id = $1 ORDER BY i.scheduled_at ASC", companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}
