package repository

import "github.com/mergington/activities/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithSeed replaces the built-in activities. An empty seed is ignored.
func WithSeed(seed []model.Activity) Option {
	return func(s *MemoryStore) {
		if len(seed) == 0 {
			return
		}
		s.seed = make([]model.Activity, len(seed))
		for i, a := range seed {
			s.seed[i] = a.Clone()
		}
	}
}

// WithCapacityEnforcement rejects signups once a roster reaches
// max_participants. Off by default: the limit is informational.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *MemoryStore) {
		s.enforceCapacity = enabled
	}
}
