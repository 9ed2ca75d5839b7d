package store

import (
	"context"
	"fmt"
	"time"
)

// PlatformStats aggregates headline counts for the admin dashboard.
type PlatformStats struct {
	TotalUsers         int `db:"total_users" json:"total_users"`
	TotalGraduates     int `db:"total_graduates" json:"total_graduates"`
	TotalCompanies     int `db:"total_companies" json:"total_companies"`
	SuspendedUsers     int `db:"suspended_users" json:"suspended_users"`
	OpenJobs           int `db:"open_jobs" json:"open_jobs"`
	TotalJobs          int `db:"total_jobs" json:"total_jobs"`
	TotalApplications  int `db:"total_applications" json:"total_applications"`
	HiredApplications  int `db:"hired_applications" json:"hired_applications"`
	PendingOffers      int `db:"pending_offers" json:"pending_offers"`
	UpcomingInterviews int `db:"upcoming_interviews" json:"upcoming_interviews"`
	TotalMatches       int `db:"total_matches" json:"total_matches"`
}

// SignupBucket is one week of user registrations.
type SignupBucket struct {
	Week  time.Time `db:"week" json:"week"`
	Count int       `db:"count" json:"count"`
}

// GetPlatformStats gathers the counts in a single round trip.
func (s *Store) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE role = 'graduate') AS total_graduates,
			(SELECT COUNT(*) FROM users WHERE role = 'company') AS total_companies,
			(SELECT COUNT(*) FROM users WHERE status = 'suspended') AS suspended_users,
			(SELECT COUNT(*) FROM jobs WHERE status = 'open') AS open_jobs,
			(SELECT COUNT(*) FROM jobs) AS total_jobs,
			(SELECT COUNT(*) FROM applications) AS total_applications,
			(SELECT COUNT(*) FROM applications WHERE status = 'hired') AS hired_applications,
			(SELECT COUNT(*) FROM offers WHERE status = 'pending') AS pending_offers,
			(SELECT COUNT(*) FROM interviews WHERE status = 'scheduled' AND scheduled_at > NOW()) AS upcoming_interviews,
			(SELECT COUNT(*) FROM matches) AS total_matches`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	return &stats, nil
}

// SignupsByWeek returns weekly registration counts for the last n weeks,
// oldest first. Weeks with no signups are absent.
func (s *Store) SignupsByWeek(ctx context.Context, weeks int) ([]SignupBucket, error) {
	if weeks <= 0 || weeks > 52 {
		weeks = 12
	}
	var buckets []SignupBucket
	err := s.db.SelectContext(ctx, &buckets, `
		SELECT date_trunc('week', created_at) AS week, COUNT(*) AS count
		FROM users
		WHERE created_at > NOW() - ($1 || ' weeks')::interval
		GROUP BY week
		ORDER BY week`,
		weeks,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get signup series: %w", err)
	}
	return buckets, nil
}
