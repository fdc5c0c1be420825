package model

import "time"

// ChangeKind tells whether a roster grew or shrank.
type ChangeKind string

const (
	ChangeSignup  ChangeKind = "signup"
	ChangeRemoval ChangeKind = "removal"
)

// RosterChange is emitted after a successful signup or removal.
type RosterChange struct {
	Kind       ChangeKind
	Activity   string
	Email      string
	RosterSize int       // roster length after the change
	At         time.Time // when the registry applied it
	RequestID  string    // correlation id of the HTTP request, if any
}
