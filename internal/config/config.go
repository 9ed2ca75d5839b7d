package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret               string
	JWTExpiryMinutes        int
	RefreshExpiryDays       int
	VerificationExpiryHours int
	ResetExpiryMinutes      int

	// AI embedding service
	AIServiceURL     string
	AIServiceTimeout int
	EmbeddingDim     int

	// Matching
	MatchMinScore          float64
	MatchMaxResults        int
	MatchCacheTTLSeconds   int
	MatchCacheMaxEntries   int
	MatchFreshnessHalfLife float64

	// Gemini AI (assessment questions, application feedback)
	GeminiAPIKey      string
	GeminiModel       string
	GeminiTemperature float32

	// Calendly
	CalendlyClientID      string
	CalendlyClientSecret  string
	CalendlyRedirectURL   string
	CalendlyWebhookSecret string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Frontend
	FrontendURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:                    GetEnv("PORT", "8080"),
		Host:                    GetEnv("HOST", "0.0.0.0"),
		DatabaseURL:             GetEnv("DATABASE_URL", ""),
		JWTSecret:               GetEnv("JWT_SECRET", ""),
		JWTExpiryMinutes:        GetEnvInt("JWT_EXPIRY_MINUTES", 15),
		RefreshExpiryDays:       GetEnvInt("REFRESH_EXPIRY_DAYS", 30),
		VerificationExpiryHours: GetEnvInt("VERIFICATION_EXPIRY_HOURS", 48),
		ResetExpiryMinutes:      GetEnvInt("RESET_EXPIRY_MINUTES", 30),
		AIServiceURL:            GetEnv("AI_SERVICE_URL", ""),
		AIServiceTimeout:        GetEnvInt("AI_SERVICE_TIMEOUT_SECONDS", 30),
		EmbeddingDim:            GetEnvInt("EMBEDDING_DIMENSION", 3072),
		MatchMinScore:           GetEnvFloat64("MATCH_MIN_SCORE", 0.3),
		MatchMaxResults:         GetEnvInt("MATCH_MAX_RESULTS", 50),
		MatchCacheTTLSeconds:    GetEnvInt("MATCH_CACHE_TTL_SECONDS", 300),
		MatchCacheMaxEntries:    GetEnvInt("MATCH_CACHE_MAX_ENTRIES", 1024),
		MatchFreshnessHalfLife:  GetEnvFloat64("MATCH_FRESHNESS_HALF_LIFE_DAYS", 30),
		GeminiAPIKey:            GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:             GetEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTemperature:       GetEnvFloat32("GEMINI_TEMPERATURE", 0.3),
		CalendlyClientID:        GetEnv("CALENDLY_CLIENT_ID", ""),
		CalendlyClientSecret:    GetEnv("CALENDLY_CLIENT_SECRET", ""),
		CalendlyRedirectURL:     GetEnv("CALENDLY_REDIRECT_URL", "http://localhost:8080/api/v1/integrations/calendly/callback"),
		CalendlyWebhookSecret:   GetEnv("CALENDLY_WEBHOOK_SECRET", ""),
		SMTPHost:                GetEnv("SMTP_HOST", ""),
		SMTPPort:                GetEnvInt("SMTP_PORT", 587),
		SMTPUsername:            GetEnv("SMTP_USERNAME", ""),
		SMTPPassword:            GetEnv("SMTP_PASSWORD", ""),
		SMTPFrom:                GetEnv("SMTP_FROM", ""),
		SMTPFromName:            GetEnv("SMTP_FROM_NAME", "Talent Hub"),
		RateLimitRPS:            GetEnvFloat64("RATE_LIMIT_RPS", 10),
		RateLimitBurst:          GetEnvInt("RATE_LIMIT_BURST", 20),
		FrontendURL:             GetEnv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:                GetEnv("LOG_LEVEL", "INFO"),
		LogFormat:               GetEnv("LOG_FORMAT", "json"),
	}
}

// IsGeminiEnabled returns true if Gemini is configured.
func (c *Config) IsGeminiEnabled() bool {
	return c.GeminiAPIKey != ""
}

// IsCalendlyEnabled returns true if Calendly OAuth is configured.
func (c *Config) IsCalendlyEnabled() bool {
	return c.CalendlyClientID != "" && c.CalendlyClientSecret != ""
}

// IsSMTPEnabled returns true if email delivery is configured.
func (c *Config) IsSMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsAIServiceEnabled returns true if the embedding service is configured.
func (c *Config) IsAIServiceEnabled() bool {
	return c.AIServiceURL != ""
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// GetEnvFloat32 returns the float32 value of an environment variable or a default value.
func GetEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

// GetEnvFloat64 returns the float64 value of an environment variable or a default value.
func GetEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// GetEnvSlice returns a slice from a comma-separated environment variable.
func GetEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}
