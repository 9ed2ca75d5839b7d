package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/auth"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/email"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Auth Handlers ====================

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	existing, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.internalError(c, "Failed to check existing user", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: "An account with this email already exists",
			Code:  "EMAIL_TAKEN",
		})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid password",
			Code:    "INVALID_PASSWORD",
			Details: err.Error(),
		})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Email, passwordHash, req.Role)
	if err != nil {
		h.internalError(c, "Failed to create user", err)
		return
	}

	h.sendVerificationEmail(c, user)
	h.respondWithTokens(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Invalid email or password",
			Code:  "INVALID_CREDENTIALS",
		})
		return
	}
	if user.Status == models.UserStatusSuspended {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: "Account is suspended",
			Code:  "ACCOUNT_SUSPENDED",
		})
		return
	}

	if err := h.store.UpdateUserLastLogin(c.Request.Context(), user.ID); err != nil {
		slog.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *Handler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Refresh token required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	session, err := h.store.GetSessionByTokenHash(ctx, auth.HashToken(req.RefreshToken))
	if err != nil {
		h.internalError(c, "Failed to look up session", err)
		return
	}
	if session == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Invalid refresh token",
			Code:  "INVALID_REFRESH_TOKEN",
		})
		return
	}

	// A revoked token coming back means it leaked or was replayed after
	// rotation. Kill every session of the user.
	if session.RevokedAt.Valid {
		slog.Warn("Refresh token reuse detected, revoking all sessions",
			"user_id", session.UserID,
			"session_id", session.ID,
		)
		if err := h.store.RevokeAllUserSessions(ctx, session.UserID); err != nil {
			slog.Error("Failed to revoke user sessions", "user_id", session.UserID, "error", err)
		}
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Refresh token has been revoked",
			Code:  "TOKEN_REUSED",
		})
		return
	}

	if time.Now().After(session.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Refresh token expired",
			Code:  "TOKEN_EXPIRED",
		})
		return
	}

	user, err := h.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil || user.Status == models.UserStatusSuspended {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Account unavailable",
			Code:  "ACCOUNT_UNAVAILABLE",
		})
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		h.internalError(c, "Failed to generate tokens", err)
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.RefreshExpiry())
	if _, err := h.store.RotateSession(ctx, session, auth.HashToken(pair.RefreshToken), expiresAt); err != nil {
		h.internalError(c, "Failed to rotate session", err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         user.ToResponse(),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Refresh token required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	session, err := h.store.GetSessionByTokenHash(c.Request.Context(), auth.HashToken(req.RefreshToken))
	if err != nil {
		h.internalError(c, "Failed to look up session", err)
		return
	}
	if session != nil {
		if err := h.store.RevokeSession(c.Request.Context(), session.ID); err != nil {
			h.internalError(c, "Failed to revoke session", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// LogoutAll handles POST /api/v1/auth/logout-all
func (h *Handler) LogoutAll(c *gin.Context) {
	userID, _ := GetUserID(c)
	if err := h.store.RevokeAllUserSessions(c.Request.Context(), userID); err != nil {
		h.internalError(c, "Failed to revoke sessions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All sessions revoked"})
}

// GetMe handles GET /api/v1/me
func (h *Handler) GetMe(c *gin.Context) {
	userID, _ := GetUserID(c)
	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "User not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// VerifyEmail handles POST /api/v1/auth/verify-email
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Verification token required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	userID, err := h.store.ConsumeActionToken(ctx, auth.HashToken(req.Token), models.TokenPurposeEmailVerification)
	if err != nil {
		h.internalError(c, "Failed to consume token", err)
		return
	}
	if userID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid or expired verification token",
			Code:  "INVALID_TOKEN",
		})
		return
	}

	if err := h.store.MarkEmailVerified(ctx, userID); err != nil {
		h.internalError(c, "Failed to verify email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

// ResendVerification handles POST /api/v1/auth/resend-verification
func (h *Handler) ResendVerification(c *gin.Context) {
	userID, _ := GetUserID(c)
	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "User not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	if user.EmailVerified {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Email already verified",
			Code:  "ALREADY_VERIFIED",
		})
		return
	}

	h.sendVerificationEmail(c, user)
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
//
// Responds identically whether or not the email exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Email required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}

	if user != nil && user.Status == models.UserStatusActive {
		token, err := auth.GenerateRefreshToken()
		if err != nil {
			h.internalError(c, "Failed to generate token", err)
			return
		}
		expiresAt := time.Now().Add(time.Duration(h.config.ResetExpiryMinutes) * time.Minute)
		if err := h.store.CreateActionToken(ctx, user.ID, auth.HashToken(token), models.TokenPurposePasswordReset, expiresAt); err != nil {
			h.internalError(c, "Failed to store token", err)
			return
		}
		h.sendEmail(email.PasswordResetEmail(user.Email, h.config.FrontendURL, token))
	}

	c.JSON(http.StatusOK, gin.H{"message": "If an account exists, a reset email has been sent"})
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid password",
			Code:    "INVALID_PASSWORD",
			Details: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	userID, err := h.store.ConsumeActionToken(ctx, auth.HashToken(req.Token), models.TokenPurposePasswordReset)
	if err != nil {
		h.internalError(c, "Failed to consume token", err)
		return
	}
	if userID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid or expired reset token",
			Code:  "INVALID_TOKEN",
		})
		return
	}

	if err := h.store.UpdateUserPassword(ctx, userID, passwordHash); err != nil {
		h.internalError(c, "Failed to update password", err)
		return
	}

	// Changing the password invalidates every open session.
	if err := h.store.RevokeAllUserSessions(ctx, userID); err != nil {
		slog.Error("Failed to revoke sessions after reset", "user_id", userID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// ==================== Helpers ====================

func (h *Handler) respondWithTokens(c *gin.Context, status int, user *models.User) {
	pair, err := h.jwtManager.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		h.internalError(c, "Failed to generate tokens", err)
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.RefreshExpiry())
	_, err = h.store.CreateSession(c.Request.Context(), user.ID,
		auth.HashToken(pair.RefreshToken), c.Request.UserAgent(), c.ClientIP(), expiresAt)
	if err != nil {
		h.internalError(c, "Failed to create session", err)
		return
	}

	c.JSON(status, models.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         user.ToResponse(),
	})
}

func (h *Handler) sendVerificationEmail(c *gin.Context, user *models.User) {
	token, err := auth.GenerateRefreshToken()
	if err != nil {
		slog.Error("Failed to generate verification token", "error", err)
		return
	}
	expiresAt := time.Now().Add(time.Duration(h.config.VerificationExpiryHours) * time.Hour)
	if err := h.store.CreateActionToken(c.Request.Context(), user.ID,
		auth.HashToken(token), models.TokenPurposeEmailVerification, expiresAt); err != nil {
		slog.Error("Failed to store verification token", "user_id", user.ID, "error", err)
		return
	}
	h.sendEmail(email.VerificationEmail(user.Email, h.config.FrontendURL, token))
}

func (h *Handler) sendEmail(msg *email.Message) {
	if h.notifier == nil {
		return
	}
	h.notifier.SendEmail(msg)
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	slog.Error(message, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: message,
		Code:  "INTERNAL_ERROR",
	})
}
