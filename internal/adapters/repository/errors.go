package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrParticipantNotFound = errors.New("participant not found in this activity")
	ErrAlreadySignedUp     = errors.New("student is already signed up")
	ErrActivityFull        = errors.New("activity is full")
	ErrDuplicateActivity   = errors.New("duplicate activity name")
	ErrInvalidActivity     = errors.New("invalid activity")
)
