package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Notification Operations ====================

// CreateNotification records an in-app notification for a user.
func (s *Store) CreateNotification(ctx context.Context, userID uuid.UUID, notifType, title, body string, data json.RawMessage) (*models.Notification, error) {
	if data == nil {
		data = json.RawMessage("{}")
	}
	var notif models.Notification
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (user_id, type, title, body, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		userID, notifType, title, body, data,
	).StructScan(&notif)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &notif, nil
}

// ListNotifications returns a user's notifications newest first, with the
// total row count and the number still unread.
func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, int, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	where := "WHERE user_id = $1"
	if unreadOnly {
		where += " AND read_at IS NULL"
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM notifications "+where, userID,
	); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var unread int
	if err := s.db.GetContext(ctx, &unread,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL", userID,
	); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications "+where+" ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, unread, nil
}

// MarkNotificationRead marks a single notification as read for its owner.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notification not found or already read")
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification for a user.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL",
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteOldNotifications removes read notifications older than the given
// number of days. Intended for a periodic cleanup job.
func (s *Store) DeleteOldNotifications(ctx context.Context, days int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE read_at IS NOT NULL AND created_at < NOW() - ($1 || ' days')::interval",
		days,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
