package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Session Operations ====================

// CreateSession stores a new session for a freshly issued refresh token.
func (s *Store) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash, userAgent, ipAddress string, expiresAt time.Time) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO sessions (user_id, token_hash, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		userID, tokenHash, nilString(userAgent), nilString(ipAddress), expiresAt,
	).StructScan(&session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// GetSessionByTokenHash retrieves a session by its current token hash,
// regardless of revocation state. Callers decide how to treat revoked rows.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session,
		"SELECT * FROM sessions WHERE token_hash = $1", tokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// RotateSession revokes the presented session and creates its successor in a
// single transaction. The revoked row keeps the new token's hash in
// replaced_by, so replay of the old refresh token is detectable.
func (s *Store) RotateSession(ctx context.Context, session *models.Session, newHash string, expiresAt time.Time) (*models.Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE sessions
		SET revoked_at = NOW(), replaced_by = $1
		WHERE id = $2 AND token_hash = $3 AND revoked_at IS NULL`,
		newHash, session.ID, session.TokenHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("session not found or already rotated")
	}

	var next models.Session
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO sessions (user_id, token_hash, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		session.UserID, newHash, session.UserAgent, session.IPAddress, expiresAt,
	).StructScan(&next)
	if err != nil {
		return nil, fmt.Errorf("failed to create rotated session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rotation: %w", err)
	}
	return &next, nil
}

// RevokeSession revokes a single session.
func (s *Store) RevokeSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL",
		sessionID,
	)
	return err
}

// RevokeAllUserSessions revokes every session of a user.
func (s *Store) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL",
		userID,
	)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ==================== Action Token Operations ====================

// CreateActionToken stores a single-use token for email verification or
// password reset, invalidating earlier tokens with the same purpose.
func (s *Store) CreateActionToken(ctx context.Context, userID uuid.UUID, tokenHash, purpose string, expiresAt time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE action_tokens SET consumed_at = NOW()
		WHERE user_id = $1 AND purpose = $2 AND consumed_at IS NULL`,
		userID, purpose,
	); err != nil {
		return fmt.Errorf("failed to invalidate old tokens: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO action_tokens (user_id, token_hash, purpose, expires_at)
		VALUES ($1, $2, $3, $4)`,
		userID, tokenHash, purpose, expiresAt,
	); err != nil {
		return fmt.Errorf("failed to create action token: %w", err)
	}

	return tx.Commit()
}

// ConsumeActionToken atomically consumes a valid token and returns its owner.
// Returns (uuid.Nil, nil) when no usable token matches.
func (s *Store) ConsumeActionToken(ctx context.Context, tokenHash, purpose string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.GetContext(ctx, &userID, `
		UPDATE action_tokens SET consumed_at = NOW()
		WHERE token_hash = $1 AND purpose = $2 AND consumed_at IS NULL AND expires_at > NOW()
		RETURNING user_id`,
		tokenHash, purpose,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to consume action token: %w", err)
	}
	return userID, nil
}
