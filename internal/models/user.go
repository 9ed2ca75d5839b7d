package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleGraduate = "graduate"
	RoleCompany  = "company"
	RoleAdmin    = "admin"
)

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User represents an authenticated account.
type User struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Email         string         `json:"email" db:"email"`
	PasswordHash  string         `json:"-" db:"password_hash"`
	Role          string         `json:"role" db:"role"`
	EmailVerified bool           `json:"email_verified" db:"email_verified"`
	Status        string         `json:"status" db:"status"`
	AvatarURL     sql.NullString `json:"-" db:"avatar_url"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	LastLoginAt   sql.NullTime   `json:"-" db:"last_login_at"`
}

// UserResponse is the API response for a user.
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	Status        string     `json:"status"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// ToResponse converts User to UserResponse.
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		Status:        u.Status,
		CreatedAt:     u.CreatedAt,
	}
	if u.AvatarURL.Valid {
		resp.AvatarURL = &u.AvatarURL.String
	}
	if u.LastLoginAt.Valid {
		resp.LastLoginAt = &u.LastLoginAt.Time
	}
	return resp
}

// Session backs one rotating refresh token chain for a login.
type Session struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	UserID     uuid.UUID      `json:"user_id" db:"user_id"`
	TokenHash  string         `json:"-" db:"token_hash"`
	UserAgent  sql.NullString `json:"user_agent" db:"user_agent"`
	IPAddress  sql.NullString `json:"ip_address" db:"ip_address"`
	ExpiresAt  time.Time      `json:"expires_at" db:"expires_at"`
	RevokedAt  sql.NullTime   `json:"revoked_at" db:"revoked_at"`
	ReplacedBy sql.NullString `json:"-" db:"replaced_by"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// Action token purposes.
const (
	TokenPurposeEmailVerification = "email_verification"
	TokenPurposePasswordReset     = "password_reset"
)

// ActionToken is a single-use token for email verification or password reset.
type ActionToken struct {
	ID         uuid.UUID    `db:"id"`
	UserID     uuid.UUID    `db:"user_id"`
	TokenHash  string       `db:"token_hash"`
	Purpose    string       `db:"purpose"`
	ExpiresAt  time.Time    `db:"expires_at"`
	ConsumedAt sql.NullTime `db:"consumed_at"`
	CreatedAt  time.Time    `db:"created_at"`
}

// RegisterRequest is the API request for registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=graduate company"`
}

// LoginRequest is the API request for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyEmailRequest carries an email verification token.
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// AuthResponse is the API response after successful authentication.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// ErrorResponse is the standard API error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
