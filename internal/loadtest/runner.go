package loadtest

import (
	"context"
	"fmt"
	"time"

	"github.com/mergington/activities/pkg/logger"
)

// Run executes the complete load check: signup every generated student
// concurrently, verify the roster, remove them all concurrently, and verify
// the roster matches what it was before.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.Get().Named("loadtest")
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting signup load check",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("activity", cfg.Activity),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
	)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Snapshot the roster
	before, err := client.Activity(ctx, cfg.Activity)
	if err != nil {
		return stats, fmt.Errorf("initial roster: %w", err)
	}
	stats.InitialRoster = len(before.Participants)

	// Step 3: Generate students
	emails := generateEmails(cfg.Students)
	stats.StudentsGenerated = len(emails)

	// Step 4: Sign everyone up concurrently
	stats.SignupsOK, stats.SignupsFailed = mutateAll(ctx, cfg, "signups", emails, client.Signup)
	if stats.SignupsFailed > 0 {
		return finish(ctx, stats), fmt.Errorf("%d of %d signups failed", stats.SignupsFailed, len(emails))
	}

	during, err := client.Activity(ctx, cfg.Activity)
	if err != nil {
		return finish(ctx, stats), fmt.Errorf("roster after signups: %w", err)
	}
	if err := verifySignedUp(before.Participants, emails, during.Participants); err != nil {
		return finish(ctx, stats), fmt.Errorf("verify signups: %w", err)
	}

	// Step 5: Remove everyone concurrently
	stats.RemovalsOK, stats.RemovalsFailed = mutateAll(ctx, cfg, "removals", emails, client.Unregister)
	if stats.RemovalsFailed > 0 {
		return finish(ctx, stats), fmt.Errorf("%d of %d removals failed", stats.RemovalsFailed, len(emails))
	}

	// Step 6: The roster must be back where it started
	after, err := client.Activity(ctx, cfg.Activity)
	if err != nil {
		return finish(ctx, stats), fmt.Errorf("roster after removals: %w", err)
	}
	if err := verifyRoundTrip(before.Participants, after.Participants); err != nil {
		return finish(ctx, stats), fmt.Errorf("verify round trip: %w", err)
	}

	finish(ctx, stats)
	log.Info(ctx, "load check passed")
	return stats, nil
}

// finish stamps the end time and logs the final statistics.
func finish(ctx context.Context, stats *Stats) *Stats {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Named("loadtest").Info(ctx, "final statistics",
		logger.Int("studentsGenerated", stats.StudentsGenerated),
		logger.Int("initialRoster", stats.InitialRoster),
		logger.Int("signupsOK", stats.SignupsOK),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Int("removalsOK", stats.RemovalsOK),
		logger.Int("removalsFailed", stats.RemovalsFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Any("requestsPerSecond", stats.RequestsPerSecond()),
	)
	return stats
}
