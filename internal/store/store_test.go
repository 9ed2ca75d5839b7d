package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsArray(t *testing.T) {
	t.Run("nil slice binds as NULL", func(t *testing.T) {
		assert.Nil(t, skillsArray(nil))
	})

	t.Run("empty slice binds as empty array", func(t *testing.T) {
		assert.NotNil(t, skillsArray([]string{}))
	})

	t.Run("values bind as array", func(t *testing.T) {
		assert.NotNil(t, skillsArray([]string{"go", "sql"}))
	})
}

func TestGraduateProfileUpsertOmittedSkills(t *testing.T) {
	// skills is NOT NULL, so the statement itself must turn the NULL of an
	// omitted skills field into an empty array on first insert and keep
	// the stored value on later updates.
	assert.Contains(t, upsertGraduateProfileQuery, "COALESCE($6::TEXT[], '{}')")
	assert.Contains(t, upsertGraduateProfileQuery, "skills = COALESCE($6::TEXT[], graduate_profiles.skills)")
}

func TestNullTimeFromDate(t *testing.T) {
	t.Run("nil is valid and empty", func(t *testing.T) {
		nt, err := nullTimeFromDate(nil)
		require.NoError(t, err)
		assert.False(t, nt.Valid)
	})

	t.Run("empty string is valid and empty", func(t *testing.T) {
		s := ""
		nt, err := nullTimeFromDate(&s)
		require.NoError(t, err)
		assert.False(t, nt.Valid)
	})

	t.Run("date only", func(t *testing.T) {
		s := "2026-09-15"
		nt, err := nullTimeFromDate(&s)
		require.NoError(t, err)
		require.True(t, nt.Valid)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), nt.Time)
	})

	t.Run("rfc 3339", func(t *testing.T) {
		s := "2026-09-15T09:30:00Z"
		nt, err := nullTimeFromDate(&s)
		require.NoError(t, err)
		require.True(t, nt.Valid)
		assert.Equal(t, time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC), nt.Time)
	})

	t.Run("unparseable input is an error", func(t *testing.T) {
		s := "next tuesday"
		_, err := nullTimeFromDate(&s)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
