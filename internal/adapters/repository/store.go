// Package repository holds the activity registry: the only place roster
// state lives and the only place it is mutated.
package repository

import (
	"context"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/types"
)

// Store provides read/write access to the activity registry.
type Store interface {
	// List returns a deep copy of every activity in registry order.
	List(ctx context.Context) types.Catalog

	// Get returns a deep copy of one activity.
	// Returns ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the activity's roster and returns the new
	// roster size. Returns ErrActivityNotFound, ErrAlreadySignedUp or,
	// with capacity enforcement on, ErrActivityFull. State is unchanged on error.
	Signup(ctx context.Context, name, email string) (int, error)

	// Remove drops email from the activity's roster and returns the new
	// roster size. Returns ErrActivityNotFound or ErrParticipantNotFound.
	Remove(ctx context.Context, name, email string) (int, error)

	// Count returns the number of activities.
	Count(ctx context.Context) int

	// Reset restores the seed the store was built with.
	Reset(ctx context.Context)
}
