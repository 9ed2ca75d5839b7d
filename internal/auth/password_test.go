package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash and verify", func(t *testing.T) {
		hash, err := HashPassword("correct-horse-battery")
		require.NoError(t, err)
		assert.NotEqual(t, "correct-horse-battery", hash)
		assert.True(t, CheckPassword("correct-horse-battery", hash))
		assert.False(t, CheckPassword("wrong-password", hash))
	})

	t.Run("too short", func(t *testing.T) {
		_, err := HashPassword("short")
		assert.Error(t, err)
	})

	t.Run("too long for bcrypt", func(t *testing.T) {
		_, err := HashPassword(strings.Repeat("x", 73))
		assert.Error(t, err)
	})

	t.Run("boundary lengths", func(t *testing.T) {
		_, err := HashPassword(strings.Repeat("x", 8))
		assert.NoError(t, err)
		_, err = HashPassword(strings.Repeat("x", 72))
		assert.NoError(t, err)
	})
}

func TestCheckPasswordInvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("whatever", "not-a-bcrypt-hash"))
}
