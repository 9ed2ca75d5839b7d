package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== User Operations ====================

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// CreateUser creates a new user account.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash, role string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO users (email, password_hash, role, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING *`,
		email, passwordHash, role,
	).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UpdateUserLastLogin updates the last login timestamp.
func (s *Store) UpdateUserLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1",
		userID,
	)
	return err
}

// MarkEmailVerified marks the user's email as verified.
func (s *Store) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1",
		userID,
	)
	return err
}

// UpdateUserPassword replaces the user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2",
		passwordHash, userID,
	)
	return err
}

// UpdateUserStatus sets the account status (active or suspended).
func (s *Store) UpdateUserStatus(ctx context.Context, userID uuid.UUID, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2",
		status, userID,
	)
	return err
}

// DeleteUser removes a user and all dependent rows via cascades.
func (s *Store) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}

// ListUsers returns users matching an optional role and search term.
func (s *Store) ListUsers(ctx context.Context, role, search string, limit, offset int) ([]models.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	idx := 1
	if role != "" {
		where += fmt.Sprintf(" AND role = $%d", idx)
		args = append(args, role)
		idx++
	}
	if search != "" {
		where += fmt.Sprintf(" AND email ILIKE $%d", idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d", where, idx, idx+1)
	args = append(args, limit, offset)

	var users []models.User
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
