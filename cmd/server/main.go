package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/ai"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/api"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/auth"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/calendly"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/config"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/db"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/email"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/gemini"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/logger"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/matcher"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/notify"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/store"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	// Load .env file if present
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(&logger.Config{
		Level:  logger.Level(cfg.LogLevel),
		Format: logger.Format(cfg.LogFormat),
	})
	log.SetDefault()

	// Check for subcommand
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "migrate":
			runMigrate(cfg, os.Args[2:])
			return
		case "version":
			fmt.Printf("talent-hub %s (%s)\n", version, commit)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// Run server
	runServer(cfg)
}

func printUsage() {
	fmt.Println(`Talent Hub - Graduate Recruiting Platform API

Usage:
  talent-hub [command]

Commands:
  (none)    Start the HTTP server
  migrate   Run database migrations
  version   Show version information
  help      Show this help message

Run 'talent-hub migrate --help' for migration options.

Environment Variables:
  DATABASE_URL             PostgreSQL connection string (required)
  JWT_SECRET               Secret key for JWT signing (required, min 32 chars)
  AI_SERVICE_URL           Embedding service base URL
  GEMINI_API_KEY           Gemini API key for assessments and feedback
  CALENDLY_CLIENT_ID       Calendly OAuth client ID
  CALENDLY_CLIENT_SECRET   Calendly OAuth client secret
  CALENDLY_WEBHOOK_SECRET  Signing key for Calendly webhooks
  SMTP_HOST                SMTP relay for transactional email
  PORT                     Server port (default: 8080)
  FRONTEND_URL             Frontend URL for CORS and email links`)
}

func runServer(cfg *config.Config) {
	ctx := context.Background()

	// Validate required config
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// Initialize database
	slog.Info("Connecting to database...")
	dbConn, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	slog.Info("Database connected")

	// Initialize store
	storeInstance := store.NewStore(dbConn)

	// Initialize JWT manager
	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiryMinutes, cfg.RefreshExpiryDays)
	if err != nil {
		slog.Error("Failed to initialize JWT manager", "error", err)
		os.Exit(1)
	}

	// Initialize match engine
	matchEngine := matcher.New(matcher.Config{
		Dimension:         cfg.EmbeddingDim,
		FreshnessHalfLife: cfg.MatchFreshnessHalfLife,
		CacheTTL:          time.Duration(cfg.MatchCacheTTLSeconds) * time.Second,
		CacheMaxEntries:   cfg.MatchCacheMaxEntries,
	})

	// Initialize embedding service client
	var aiClient *ai.Client
	if cfg.IsAIServiceEnabled() {
		aiClient = ai.NewClient(cfg.AIServiceURL, time.Duration(cfg.AIServiceTimeout)*time.Second)
		if err := aiClient.HealthCheck(ctx); err != nil {
			slog.Warn("Embedding service unreachable at startup", "error", err)
		} else {
			slog.Info("Embedding service enabled", "url", cfg.AIServiceURL)
		}
	}

	// Initialize Gemini client
	var geminiClient *gemini.Client
	if cfg.IsGeminiEnabled() {
		geminiClient, err = gemini.NewClient(ctx, gemini.ClientConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.GeminiTemperature,
		})
		if err != nil {
			slog.Warn("Failed to initialize Gemini client", "error", err)
		} else {
			defer geminiClient.Close()
			slog.Info("Gemini assessments and feedback enabled")
		}
	}

	// Initialize Calendly provider
	var calendlyProvider *calendly.Provider
	if cfg.IsCalendlyEnabled() {
		calendlyProvider = calendly.NewProvider(cfg.CalendlyClientID, cfg.CalendlyClientSecret, cfg.CalendlyRedirectURL)
		slog.Info("Calendly integration enabled")
	}

	// Initialize email sender
	var sender *email.Sender
	if cfg.IsSMTPEnabled() {
		sender = email.NewSender(&email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		slog.Info("SMTP email enabled", "host", cfg.SMTPHost)
	}

	notifier := notify.New(storeInstance, sender, slog.Default())

	// Background goroutines stop when the server shuts down
	backgroundCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	// Setup router
	handler := api.NewHandler(cfg, storeInstance, jwtManager, matchEngine, aiClient, geminiClient, calendlyProvider, notifier)
	router := api.SetupRouter(backgroundCtx, handler)

	// Periodic cleanup of expired sessions and stale notifications
	go runCleanup(backgroundCtx, storeInstance)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting talent hub API", "address", addr, "version", version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

// runCleanup deletes expired sessions hourly and prunes read notifications
// older than 90 days.
func runCleanup(ctx context.Context, st *store.Store) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := st.DeleteExpiredSessions(ctx); err != nil {
				slog.Error("Session cleanup failed", "error", err)
			} else if n > 0 {
				slog.Info("Deleted expired sessions", "count", n)
			}
			if n, err := st.DeleteOldNotifications(ctx, 90); err != nil {
				slog.Error("Notification cleanup failed", "error", err)
			} else if n > 0 {
				slog.Info("Deleted old notifications", "count", n)
			}
		}
	}
}

func runMigrate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	databaseURL := fs.String("database", cfg.DatabaseURL, "PostgreSQL connection string")
	direction := fs.String("direction", "up", "Migration direction: up, down")
	steps := fs.Int("steps", 0, "Number of migrations to run (0 = all)")
	force := fs.Int("force", -1, "Force migration version (for recovery)")
	fs.Parse(args)

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_URL is required. Set via environment variable or --database flag.")
		os.Exit(1)
	}

	fmt.Printf("Running migrations (%s)...\n", *direction)

	migrator, err := db.NewMigrator(*databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	defer migrator.Close()

	// Force version if specified
	if *force >= 0 {
		fmt.Printf("Forcing migration version to %d...\n", *force)
		if err := migrator.Force(*force); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to force migration version: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migration version forced successfully.")
		return
	}

	// Run migrations
	if *steps != 0 {
		n := *steps
		if *direction == "down" {
			n = -n
		}
		if err := migrator.Steps(n); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Migration failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		switch *direction {
		case "up":
			if err := migrator.Up(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: Migration up failed: %v\n", err)
				os.Exit(1)
			}
		case "down":
			if err := migrator.Down(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: Migration down failed: %v\n", err)
				os.Exit(1)
			}
		default:
			fmt.Fprintf(os.Stderr, "Error: Invalid direction '%s'. Use 'up' or 'down'.\n", *direction)
			os.Exit(1)
		}
	}

	// Show current version
	ver, dirty, err := migrator.Version()
	if err != nil {
		fmt.Printf("Migrations applied successfully.\n")
	} else {
		dirtyStr := ""
		if dirty {
			dirtyStr = " (dirty)"
		}
		fmt.Printf("Migrations applied successfully. Current version: %d%s\n", ver, dirtyStr)
	}
}
