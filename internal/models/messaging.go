package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Conversation pairs a graduate and a company.
type Conversation struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	GraduateID    uuid.UUID    `json:"graduate_id" db:"graduate_id"`
	CompanyID     uuid.UUID    `json:"company_id" db:"company_id"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	LastMessageAt sql.NullTime `json:"last_message_at" db:"last_message_at"`

	GraduateName sql.NullString `json:"graduate_name,omitempty" db:"graduate_name"`
	CompanyName  sql.NullString `json:"company_name,omitempty" db:"company_name"`
	UnreadCount  int            `json:"unread_count" db:"unread_count"`
}

// Message is a single message inside a conversation.
type Message struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	ConversationID uuid.UUID    `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID    `json:"sender_id" db:"sender_id"`
	Body           string       `json:"body" db:"body"`
	ReadAt         sql.NullTime `json:"read_at" db:"read_at"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// SendMessageRequest sends a message to a user, creating the conversation if needed.
type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Body        string    `json:"body" binding:"required"`
}

// Notification types.
const (
	NotificationApplicationStatus = "application_status"
	NotificationNewApplication    = "new_application"
	NotificationNewMessage        = "new_message"
	NotificationInterview         = "interview"
	NotificationOffer             = "offer"
	NotificationMatch             = "match"
	NotificationSystem            = "system"
)

// Notification is a per-user notification with optional structured payload.
type Notification struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Type      string          `json:"type" db:"type"`
	Title     string          `json:"title" db:"title"`
	Body      string          `json:"body" db:"body"`
	Data      json.RawMessage `json:"data,omitempty" db:"data"`
	ReadAt    sql.NullTime    `json:"read_at" db:"read_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// NotificationListResponse is a paginated notification listing.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unread_count"`
}
