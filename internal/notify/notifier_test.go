package notify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "hello", truncate("hello", 120))
	})

	t.Run("exact length passes through", func(t *testing.T) {
		s := strings.Repeat("a", 120)
		assert.Equal(t, s, truncate(s, 120))
	})

	t.Run("long strings are cut", func(t *testing.T) {
		got := truncate(strings.Repeat("a", 200), 120)
		assert.Len(t, got, 120)
	})

	t.Run("backs off a partial rune", func(t *testing.T) {
		// The cut point lands mid-rune, so the result is shorter than
		// the limit but still valid UTF-8.
		got := truncate("a"+strings.Repeat("€", 50), 120)
		assert.True(t, utf8.ValidString(got))
		assert.Less(t, len(got), 120)
	})

	t.Run("never splits a rune", func(t *testing.T) {
		got := truncate(strings.Repeat("é", 100), 120)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), 120)
		assert.True(t, strings.HasSuffix(got, "é"))
	})
}
