package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The purpose constants are written verbatim into action_tokens rows, so
// they must stay in lockstep with the column's CHECK constraint.
func TestActionTokenPurposesMatchSchema(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_create_users.up.sql"))
	require.NoError(t, err)

	schema := string(raw)
	assert.Contains(t, schema, "'"+TokenPurposeEmailVerification+"'")
	assert.Contains(t, schema, "'"+TokenPurposePasswordReset+"'")
}
