package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/metrics"
)

// In-memory Store implementation.
//
// One RWMutex guards the whole registry. Every mutation runs its existence
// and membership checks and its write inside a single critical section, so a
// failed call never leaves a partial write behind and two concurrent signups
// for the same email cannot both succeed.

// MemoryStore keeps the registry in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*model.Activity

	seed            []model.Activity
	enforceCapacity bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a registry loaded with the seed (DefaultSeed unless
// WithSeed is given). Returns an error if the seed repeats a name or email.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{seed: DefaultSeed()}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateSeed(s.seed); err != nil {
		return nil, err
	}
	s.load()
	return s, nil
}

// load replaces the registry with a deep copy of the seed. Caller holds mu
// or has exclusive access.
func (s *MemoryStore) load() {
	s.order = make([]string, 0, len(s.seed))
	s.byName = make(map[string]*model.Activity, len(s.seed))
	for _, a := range s.seed {
		c := a.Clone()
		s.order = append(s.order, c.Name)
		s.byName[c.Name] = &c
		metrics.UpdateEnrollment(c.Name, len(c.Participants))
		metrics.UpdateCapacity(c.Name, c.MaxParticipants)
	}
	metrics.UpdateActivitiesTotal(len(s.order))
}

// List returns a deep copy of every activity in registry order.
func (s *MemoryStore) List(_ context.Context) types.Catalog {
	defer observe("list", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(types.Catalog, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name].Clone())
	}
	return out
}

// Get returns a deep copy of one activity.
func (s *MemoryStore) Get(_ context.Context, name string) (model.Activity, error) {
	defer observe("get", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byName[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup appends email to the named activity's roster.
func (s *MemoryStore) Signup(_ context.Context, name, email string) (int, error) {
	defer observe("signup", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byName[name]
	if !ok {
		return 0, ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return len(a.Participants), ErrAlreadySignedUp
	}
	if s.enforceCapacity && a.IsFull() {
		return len(a.Participants), ErrActivityFull
	}
	a.Participants = append(a.Participants, email)
	metrics.UpdateEnrollment(name, len(a.Participants))
	return len(a.Participants), nil
}

// Remove drops email from the named activity's roster, keeping the order of
// the remaining participants.
func (s *MemoryStore) Remove(_ context.Context, name, email string) (int, error) {
	defer observe("remove", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byName[name]
	if !ok {
		return 0, ErrActivityNotFound
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return len(a.Participants), ErrParticipantNotFound
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	metrics.UpdateEnrollment(name, len(a.Participants))
	return len(a.Participants), nil
}

// Count returns the number of activities.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset restores the seed.
func (s *MemoryStore) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

// CapacityEnforced reports whether signups stop at max_participants.
func (s *MemoryStore) CapacityEnforced() bool {
	return s.enforceCapacity
}

func observe(op string, start time.Time) {
	metrics.RecordRegistryLatency(op, float64(time.Since(start).Microseconds())/1000)
}
