package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

const applicationSelect = `
	SELECT a.*,
		j.title AS job_title,
		c.name AS company_name,
		TRIM(CONCAT(g.first_name, ' ', g.last_name)) AS graduate_name,
		u.email AS graduate_email
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN company_profiles c ON c.id = j.company_id
	JOIN graduate_profiles g ON g.id = a.graduate_id
	JOIN users u ON u.id = g.user_id`

// ==================== Application Operations ====================

// GetApplication retrieves an application with joined display fields.
func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := s.db.GetContext(ctx, &app, applicationSelect+" WHERE a.id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// GetApplicationByJobAndGraduate retrieves an application for a specific pairing.
func (s *Store) GetApplicationByJobAndGraduate(ctx context.Context, jobID, graduateID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := s.db.GetContext(ctx, &app,
		"SELECT * FROM applications WHERE job_id = $1 AND graduate_id = $2", jobID, graduateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// CreateApplication creates a pending application.
func (s *Store) CreateApplication(ctx context.Context, jobID, graduateID uuid.UUID, coverLetter *string) (*models.Application, error) {
	var app models.Application
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO applications (job_id, graduate_id, status, cover_letter)
		VALUES ($1, $2, 'pending', $3)
		RETURNING *`,
		jobID, graduateID, coverLetter,
	).StructScan(&app)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return &app, nil
}

// UpdateApplicationStatus moves an application to a new status.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id,
	)
	return err
}

// UpdateApplicationFeedback attaches feedback text to an application.
func (s *Store) UpdateApplicationFeedback(ctx context.Context, id uuid.UUID, feedback string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE applications SET feedback = $1, updated_at = NOW() WHERE id = $2",
		feedback, id,
	)
	return err
}

// ListApplicationsByGraduate returns a graduate's applications, newest first.
func (s *Store) ListApplicationsByGraduate(ctx context.Context, graduateID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.SelectContext(ctx, &apps,
		applicationSelect+" WHERE a.graduate_id = $1 ORDER BY a.created_at DESC", graduateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListApplicationsByJob returns applications for one job, newest first.
func (s *Store) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.SelectContext(ctx, &apps,
		applicationSelect+" WHERE a.job_id = $1 ORDER BY a.created_at DESC", jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ==================== Offer Operations ====================

const offerSelect = `
	SELECT o.*, j.title AS job_title, c.name AS company_name
	FROM offers o
	JOIN jobs j ON j.id = o.job_id
	JOIN company_profiles c ON c.id = o.company_id`

// GetOffer retrieves an offer by ID.
func (s *Store) GetOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.GetContext(ctx, &offer, offerSelect+" WHERE o.id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

// CreateOffer extends an offer on an application.
func (s *Store) CreateOffer(ctx context.Context, app *models.Application, companyID uuid.UUID, req *models.OfferRequest) (*models.Offer, error) {
	startDate, err := nullTimeFromDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	expiresAt, err := nullTimeFromDate(req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	var offer models.Offer
	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO offers (
			application_id, job_id, graduate_id, company_id,
			salary, currency, start_date, expires_at, status, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9)
		RETURNING *`,
		app.ID, app.JobID, app.GraduateID, companyID,
		req.Salary, req.Currency,
		startDate, expiresAt,
		req.Message,
	).StructScan(&offer)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	return &offer, nil
}

// UpdateOfferStatus records the graduate's or company's response.
func (s *Store) UpdateOfferStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE offers SET status = $1, responded_at = NOW(), updated_at = NOW()
		WHERE id = $2`,
		status, id,
	)
	return err
}

// ListOffersByGraduate returns a graduate's offers, newest first.
func (s *Store) ListOffersByGraduate(ctx context.Context, graduateID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.SelectContext(ctx, &offers,
		offerSelect+" WHERE o.graduate_id = $1 ORDER BY o.created_at DESC", graduateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// ListOffersByCompany returns a company's offers, newest first.
func (s *Store) ListOffersByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.SelectContext(ctx, &offers,
		offerSelect+" WHERE o.company_id = $1 ORDER BY o.created_at DESC", companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}
