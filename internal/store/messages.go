package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Conversation Operations ====================

// GetConversation retrieves a conversation by ID.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.GetContext(ctx, &conv, "SELECT * FROM conversations WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// GetOrCreateConversation finds the conversation pairing a graduate and a
// company, creating it on first contact.
func (s *Store) GetOrCreateConversation(ctx context.Context, graduateID, companyID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO conversations (graduate_id, company_id)
		VALUES ($1, $2)
		ON CONFLICT (graduate_id, company_id) DO UPDATE SET graduate_id = EXCLUDED.graduate_id
		RETURNING *`,
		graduateID, companyID,
	).StructScan(&conv)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations returns all conversations a user participates in, with
// the other party's display name and the caller's unread count.
func (s *Store) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.db.SelectContext(ctx, &conversations, `
		SELECT v.*,
			TRIM(CONCAT(g.first_name, ' ', g.last_name)) AS graduate_name,
			c.name AS company_name,
			(
				SELECT COUNT(*) FROM messages m
				WHERE m.conversation_id = v.id AND m.read_at IS NULL AND m.sender_id <> $1
			) AS unread_count
		FROM conversations v
		JOIN graduate_profiles g ON g.id = v.graduate_id
		JOIN company_profiles c ON c.id = v.company_id
		WHERE g.user_id = $1 OR c.user_id = $1
		ORDER BY v.last_message_at DESC NULLS LAST`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// UserInConversation reports whether the user is one of the two participants.
func (s *Store) UserInConversation(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.GetContext(ctx, &ok, `
		SELECT EXISTS (
			SELECT 1 FROM conversations v
			JOIN graduate_profiles g ON g.id = v.graduate_id
			JOIN company_profiles c ON c.id = v.company_id
			WHERE v.id = $1 AND (g.user_id = $2 OR c.user_id = $2)
		)`,
		conversationID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation membership: %w", err)
	}
	return ok, nil
}

// ==================== Message Operations ====================

// CreateMessage appends a message and bumps the conversation's last activity.
func (s *Store) CreateMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*models.Message, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var msg models.Message
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING *`,
		conversationID, senderID, body,
	).StructScan(&msg)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE conversations SET last_message_at = NOW() WHERE id = $1",
		conversationID,
	); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return &msg, nil
}

// ListMessages returns messages in a conversation, oldest first.
func (s *Store) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var messages []models.Message
	err := s.db.SelectContext(ctx, &messages, `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`,
		conversationID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkConversationRead marks all messages from the other party as read.
func (s *Store) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET read_at = NOW()
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL`,
		conversationID, readerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// TotalUnreadMessages counts unread messages for a user across all conversations.
func (s *Store) TotalUnreadMessages(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM messages m
		JOIN conversations v ON v.id = m.conversation_id
		JOIN graduate_profiles g ON g.id = v.graduate_id
		JOIN company_profiles c ON c.id = v.company_id
		WHERE m.read_at IS NULL AND m.sender_id <> $1
			AND (g.user_id = $1 OR c.user_id = $1)`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
