package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// SetupRouter configures the Gin router with all routes. Routes backed by
// optional integrations are only registered when the integration is up.
// ctx bounds the lifetime of the rate limiter's eviction goroutine.
func SetupRouter(ctx context.Context, h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(SecurityHeaders())
	r.Use(CORSMiddleware(h.config.FrontendURL))
	r.Use(NewRateLimiter(ctx, h.config.RateLimitRPS, h.config.RateLimitBurst).Middleware())

	// Health check
	r.GET("/health", h.HealthCheck)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/refresh", h.RefreshToken)
			authGroup.POST("/logout", h.Logout)
			authGroup.POST("/verify-email", h.VerifyEmail)
			authGroup.POST("/forgot-password", h.ForgotPassword)
			authGroup.POST("/reset-password", h.ResetPassword)
		}

		// Public job board
		v1.GET("/jobs", h.ListJobs)
		v1.GET("/jobs/:id", h.GetJob)

		// Calendly redirect target and webhook (no JWT; verified separately)
		if h.calendlyProvider != nil {
			v1.GET("/integrations/calendly/callback", h.CalendlyCallback)
			v1.POST("/integrations/calendly/webhook", h.CalendlyWebhook)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(AuthMiddleware(h.jwtManager))
		{
			protected.GET("/me", h.GetMe)
			protected.POST("/auth/logout-all", h.LogoutAll)
			protected.POST("/auth/resend-verification", h.ResendVerification)

			// Messaging and notifications, shared by both roles
			protected.GET("/conversations", h.ListConversations)
			protected.GET("/conversations/:id/messages", h.ListMessages)
			protected.POST("/conversations/:id/read", h.MarkConversationRead)
			protected.POST("/messages", h.SendMessage)

			protected.GET("/notifications", h.ListNotifications)
			protected.POST("/notifications/:id/read", h.MarkNotificationRead)
			protected.POST("/notifications/read-all", h.MarkAllNotificationsRead)

			// Graduate routes
			graduate := protected.Group("/graduate")
			graduate.Use(RequireRole(models.RoleGraduate))
			{
				graduate.GET("/profile", h.GetGraduateProfile)
				graduate.PUT("/profile", h.UpdateGraduateProfile)

				graduate.POST("/applications", h.Apply)
				graduate.GET("/applications", h.ListMyApplications)
				graduate.POST("/applications/:id/withdraw", h.WithdrawApplication)

				graduate.GET("/offers", h.ListMyOffers)
				graduate.POST("/offers/:id/accept", h.RespondToOffer(true))
				graduate.POST("/offers/:id/decline", h.RespondToOffer(false))

				graduate.GET("/interviews", h.ListMyInterviews)

				graduate.GET("/matches", h.ListMatches)
				graduate.POST("/matches/compute", h.ComputeMatches)

				graduate.GET("/assessments/pending", h.GetPendingAssessment)
				graduate.POST("/assessments/:id/submit", h.SubmitAssessment)
				if h.geminiClient != nil {
					graduate.POST("/assessments", h.GenerateAssessment)
				}
			}

			// Company routes
			company := protected.Group("/company")
			company.Use(RequireRole(models.RoleCompany))
			{
				company.GET("/profile", h.GetCompanyProfile)
				company.PUT("/profile", h.UpdateCompanyProfile)

				company.GET("/jobs", h.ListCompanyJobs)
				company.POST("/jobs", h.CreateJob)
				company.PUT("/jobs/:id", h.UpdateJob)
				company.DELETE("/jobs/:id", h.DeleteJob)
				company.GET("/jobs/:id/applications", h.ListJobApplications)
				company.GET("/jobs/:id/candidates", h.ListJobCandidates)
				company.POST("/jobs/:id/candidates/recompute", h.RecomputeJobCandidates)

				company.PUT("/applications/:id/status", h.UpdateApplicationStatus)

				company.POST("/offers", h.CreateOffer)
				company.GET("/offers", h.ListCompanyOffers)
				company.POST("/offers/:id/withdraw", h.WithdrawOffer)

				company.POST("/interviews", h.ScheduleInterview)
				company.PUT("/interviews/:id", h.UpdateInterview)
				company.GET("/interviews", h.ListCompanyInterviews)

				if h.calendlyProvider != nil {
					company.GET("/integrations/calendly/connect", h.ConnectCalendly)
					company.GET("/integrations/calendly/event-types", h.ListCalendlyEventTypes)
					company.DELETE("/integrations/calendly", h.DisconnectCalendly)
				}
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", h.AdminListUsers)
				admin.POST("/users/:id/suspend", h.AdminSetUserStatus(models.UserStatusSuspended))
				admin.POST("/users/:id/activate", h.AdminSetUserStatus(models.UserStatusActive))
				admin.DELETE("/users/:id", h.AdminDeleteUser)
				admin.GET("/stats", h.AdminStats)
			}
		}
	}

	return r
}
