package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	assert.Equal(t, "value", GetEnv("TEST_STRING", "default"))
	assert.Equal(t, "default", GetEnv("TEST_STRING_MISSING", "default"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 42, GetEnvInt("TEST_INT", 7))
	assert.Equal(t, 7, GetEnvInt("TEST_INT_BAD", 7))
	assert.Equal(t, 7, GetEnvInt("TEST_INT_MISSING", 7))
}

func TestGetEnvFloat64(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.35")
	assert.Equal(t, 0.35, GetEnvFloat64("TEST_FLOAT", 1.0))
	assert.Equal(t, 1.0, GetEnvFloat64("TEST_FLOAT_MISSING", 1.0))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BOOL_BAD", "maybe")
	assert.True(t, GetEnvBool("TEST_BOOL", false))
	assert.False(t, GetEnvBool("TEST_BOOL_BAD", false))
	assert.True(t, GetEnvBool("TEST_BOOL_MISSING", true))
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", "a, b , ,c")
	assert.Equal(t, []string{"a", "b", "c"}, GetEnvSlice("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, GetEnvSlice("TEST_SLICE_MISSING", []string{"x"}))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRY_MINUTES", "")
	t.Setenv("REFRESH_EXPIRY_DAYS", "")
	t.Setenv("EMBEDDING_DIMENSION", "")
	t.Setenv("MATCH_CACHE_TTL_SECONDS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.JWTExpiryMinutes)
	assert.Equal(t, 30, cfg.RefreshExpiryDays)
	assert.Equal(t, 3072, cfg.EmbeddingDim)
	assert.Equal(t, 300, cfg.MatchCacheTTLSeconds)
}

func TestFeatureFlags(t *testing.T) {
	t.Run("everything disabled on empty config", func(t *testing.T) {
		cfg := &Config{}
		assert.False(t, cfg.IsGeminiEnabled())
		assert.False(t, cfg.IsCalendlyEnabled())
		assert.False(t, cfg.IsSMTPEnabled())
		assert.False(t, cfg.IsAIServiceEnabled())
	})

	t.Run("calendly needs both client id and secret", func(t *testing.T) {
		cfg := &Config{CalendlyClientID: "id"}
		assert.False(t, cfg.IsCalendlyEnabled())
		cfg.CalendlyClientSecret = "secret"
		assert.True(t, cfg.IsCalendlyEnabled())
	})

	t.Run("smtp needs host and from address", func(t *testing.T) {
		cfg := &Config{SMTPHost: "smtp.test"}
		assert.False(t, cfg.IsSMTPEnabled())
		cfg.SMTPFrom = "noreply@talenthub.test"
		assert.True(t, cfg.IsSMTPEnabled())
	})
}
