package loadtest

import (
	"errors"
	"fmt"
	"slices"
)

// Verification failures.
var (
	ErrDuplicateParticipant = errors.New("participant listed twice")
	ErrMissingParticipant   = errors.New("participant missing from roster")
	ErrRosterChanged        = errors.New("roster differs from the initial roster")
)

// verifyNoDuplicates fails if any email appears more than once.
func verifyNoDuplicates(roster []string) error {
	seen := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// verifySignedUp fails unless roster starts with initial and holds every
// added email after it.
func verifySignedUp(initial, added, roster []string) error {
	if err := verifyNoDuplicates(roster); err != nil {
		return err
	}
	if len(roster) < len(initial) || !slices.Equal(roster[:len(initial)], initial) {
		return fmt.Errorf("%w: existing participants were reordered or dropped", ErrRosterChanged)
	}
	tail := roster[len(initial):]
	for _, email := range added {
		if !slices.Contains(tail, email) {
			return fmt.Errorf("%w: %s", ErrMissingParticipant, email)
		}
	}
	return nil
}

// verifyRoundTrip fails unless the roster is exactly the initial one.
func verifyRoundTrip(initial, roster []string) error {
	if !slices.Equal(initial, roster) {
		return fmt.Errorf("%w: want %d participants, got %d", ErrRosterChanged, len(initial), len(roster))
	}
	return nil
}
