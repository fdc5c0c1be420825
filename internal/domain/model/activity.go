// Package model contains domain models passed between layers.
package model

import "slices"

// Activity is a named extracurricular offering and its roster.
// Participants keeps signup order and never holds the same email twice.
type Activity struct {
	Name            string   `json:"-" koanf:"name"`
	Description     string   `json:"description" koanf:"description"`
	Schedule        string   `json:"schedule" koanf:"schedule"`
	MaxParticipants int      `json:"max_participants" koanf:"max_participants"`
	Participants    []string `json:"participants" koanf:"participants"`
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// IsFull reports whether the roster has reached MaxParticipants.
// A non-positive MaxParticipants means unlimited.
func (a *Activity) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the free places, or -1 when the activity is unlimited.
func (a *Activity) SpotsLeft() int {
	if a.MaxParticipants <= 0 {
		return -1
	}
	return max(a.MaxParticipants-len(a.Participants), 0)
}

// Clone returns a deep copy; the roster slice is never shared.
func (a Activity) Clone() Activity {
	c := a
	c.Participants = make([]string, len(a.Participants))
	copy(c.Participants, a.Participants)
	return c
}
