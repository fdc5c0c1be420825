// Package loadtest drives a running activities server with concurrent
// signups and removals and checks that rosters come back intact.
package loadtest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Activity string        // Activity whose roster is exercised
	Students int           // Number of generated students
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every request
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return errors.New("base url must not be empty")
	case strings.TrimSpace(c.Activity) == "":
		return errors.New("activity must not be empty")
	case c.Students < 1:
		return fmt.Errorf("students must be positive, got %d", c.Students)
	case c.Workers < 1:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	StudentsGenerated int
	InitialRoster     int
	SignupsOK         int
	SignupsFailed     int
	RemovalsOK        int
	RemovalsFailed    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// RequestsPerSecond is the mutation throughput over the whole run.
func (s *Stats) RequestsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	total := s.SignupsOK + s.SignupsFailed + s.RemovalsOK + s.RemovalsFailed
	return float64(total) / s.Duration.Seconds()
}
