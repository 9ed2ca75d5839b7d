package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

func TestNewJWTManager(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		m, err := NewJWTManager(testSecret, 15, 30)
		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.Equal(t, 30*24*time.Hour, m.RefreshExpiry())
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewJWTManager("", 15, 30)
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := NewJWTManager("too-short", 15, 30)
		assert.Error(t, err)
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	m, err := NewJWTManager(testSecret, 15, 30)
	require.NoError(t, err)

	userID := uuid.New()
	pair, err := m.GenerateTokenPair(userID, "grad@example.com", "graduate")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*60, pair.ExpiresIn)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "grad@example.com", claims.Email)
	assert.Equal(t, "graduate", claims.Role)
	assert.Equal(t, "talenthub", claims.Issuer)
}

func TestValidateAccessToken(t *testing.T) {
	m, err := NewJWTManager(testSecret, 15, 30)
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := NewJWTManager("another-secret-that-is-32-chars-long!!", 15, 30)
		require.NoError(t, err)
		pair, err := other.GenerateTokenPair(uuid.New(), "a@b.c", "company")
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewJWTManager(testSecret, -1, 30)
		require.NoError(t, err)
		pair, err := expired.GenerateTokenPair(uuid.New(), "a@b.c", "graduate")
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(pair.AccessToken)
		assert.Error(t, err)
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := GenerateRefreshToken()
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.False(t, seen[token], "tokens must be unique")
		seen[token] = true
	}
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-token")
	h2 := HashToken("some-token")
	h3 := HashToken("other-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex-encoded sha256
}
