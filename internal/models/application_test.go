package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionApplication(t *testing.T) {
	t.Run("pipeline moves forward", func(t *testing.T) {
		assert.True(t, CanTransitionApplication(ApplicationStatusPending, ApplicationStatusReviewing))
		assert.True(t, CanTransitionApplication(ApplicationStatusReviewing, ApplicationStatusShortlisted))
		assert.True(t, CanTransitionApplication(ApplicationStatusShortlisted, ApplicationStatusInterview))
		assert.True(t, CanTransitionApplication(ApplicationStatusInterview, ApplicationStatusOffered))
		assert.True(t, CanTransitionApplication(ApplicationStatusOffered, ApplicationStatusHired))
	})

	t.Run("rejection is allowed at every active stage", func(t *testing.T) {
		for _, from := range []string{
			ApplicationStatusPending,
			ApplicationStatusReviewing,
			ApplicationStatusShortlisted,
			ApplicationStatusInterview,
			ApplicationStatusOffered,
		} {
			assert.True(t, CanTransitionApplication(from, ApplicationStatusRejected), "from %s", from)
		}
	})

	t.Run("no skipping stages", func(t *testing.T) {
		assert.False(t, CanTransitionApplication(ApplicationStatusPending, ApplicationStatusShortlisted))
		assert.False(t, CanTransitionApplication(ApplicationStatusPending, ApplicationStatusHired))
		assert.False(t, CanTransitionApplication(ApplicationStatusReviewing, ApplicationStatusOffered))
	})

	t.Run("no moving backward", func(t *testing.T) {
		assert.False(t, CanTransitionApplication(ApplicationStatusReviewing, ApplicationStatusPending))
		assert.False(t, CanTransitionApplication(ApplicationStatusOffered, ApplicationStatusInterview))
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, from := range []string{ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn} {
			for _, to := range []string{ApplicationStatusPending, ApplicationStatusReviewing, ApplicationStatusRejected} {
				assert.False(t, CanTransitionApplication(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("unknown statuses", func(t *testing.T) {
		assert.False(t, CanTransitionApplication("bogus", ApplicationStatusReviewing))
		assert.False(t, CanTransitionApplication(ApplicationStatusPending, "bogus"))
	})
}

func TestOfferExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no deadline never expires", func(t *testing.T) {
		o := &Offer{Status: OfferStatusPending}
		assert.False(t, o.Expired(now))
	})

	t.Run("future deadline", func(t *testing.T) {
		o := &Offer{ExpiresAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true}}
		assert.False(t, o.Expired(now))
	})

	t.Run("past deadline", func(t *testing.T) {
		o := &Offer{ExpiresAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}}
		assert.True(t, o.Expired(now))
	})
}
