// Package store wraps all database access behind typed operations.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrInvalidDate reports a date string that is neither YYYY-MM-DD nor RFC 3339.
var ErrInvalidDate = errors.New("invalid date")

// Store handles database operations.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new Store instance.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database connection.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// ==================== Helper Functions ====================

func nilString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTimeFromDate(s *string) (sql.NullTime, error) {
	if s == nil || *s == "" {
		return sql.NullTime{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *s); err == nil {
			return sql.NullTime{Time: t, Valid: true}, nil
		}
	}
	return sql.NullTime{}, fmt.Errorf("%w: %q", ErrInvalidDate, *s)
}
