package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/mergington/activities/internal/domain/model"
)

func newSeededStore(t *testing.T, opts ...Option) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestMemoryStore_Seed(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	if count := store.Count(ctx); count != 9 {
		t.Fatalf("expected 9 activities, got %d", count)
	}

	want := []string{
		"Chess Club", "Programming Class", "Gym Class", "Soccer Team", "Basketball Club",
		"Art Workshop", "Drama Club", "Mathletes", "Science Club",
	}
	if got := store.List(ctx).Names(); !slices.Equal(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}

	chess, err := store.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(chess.Participants, []string{"michael@mergington.edu", "daniel@mergington.edu"}) {
		t.Errorf("unexpected chess roster %v", chess.Participants)
	}
	if chess.MaxParticipants != 12 {
		t.Errorf("expected max 12, got %d", chess.MaxParticipants)
	}
}

func TestMemoryStore_Signup(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)
	const email = "new@mergington.edu"

	size, err := store.Signup(ctx, "Chess Club", email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != 3 {
		t.Errorf("expected roster size 3, got %d", size)
	}

	chess, _ := store.Get(ctx, "Chess Club")
	if chess.Participants[2] != email {
		t.Errorf("expected %s appended last, got %v", email, chess.Participants)
	}

	// Repeating fails and leaves the roster alone.
	size, err = store.Signup(ctx, "Chess Club", email)
	if !errors.Is(err, ErrAlreadySignedUp) {
		t.Fatalf("expected ErrAlreadySignedUp, got %v", err)
	}
	if size != 3 {
		t.Errorf("expected roster size to stay 3, got %d", size)
	}

	// The same email may join other activities.
	if _, err := store.Signup(ctx, "Programming Class", email); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMemoryStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	size, err := store.Remove(ctx, "Chess Club", "michael@mergington.edu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != 1 {
		t.Errorf("expected roster size 1, got %d", size)
	}

	_, err = store.Remove(ctx, "Chess Club", "michael@mergington.edu")
	if !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}

	chess, _ := store.Get(ctx, "Chess Club")
	if !slices.Equal(chess.Participants, []string{"daniel@mergington.edu"}) {
		t.Errorf("unexpected roster %v", chess.Participants)
	}
}

func TestMemoryStore_RemoveKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	for _, e := range []string{"a@mergington.edu", "b@mergington.edu", "c@mergington.edu"} {
		if _, err := store.Signup(ctx, "Drama Club", e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := store.Remove(ctx, "Drama Club", "a@mergington.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drama, _ := store.Get(ctx, "Drama Club")
	want := []string{"charlotte@mergington.edu", "noah@mergington.edu", "b@mergington.edu", "c@mergington.edu"}
	if !slices.Equal(drama.Participants, want) {
		t.Errorf("expected %v, got %v", want, drama.Participants)
	}
}

func TestMemoryStore_UnknownActivity(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	for _, email := range []string{"test@mergington.edu", "", "michael@mergington.edu"} {
		if _, err := store.Signup(ctx, "Nonexistent Club", email); !errors.Is(err, ErrActivityNotFound) {
			t.Errorf("signup %q: expected ErrActivityNotFound, got %v", email, err)
		}
		if _, err := store.Remove(ctx, "Nonexistent Club", email); !errors.Is(err, ErrActivityNotFound) {
			t.Errorf("remove %q: expected ErrActivityNotFound, got %v", email, err)
		}
	}
	if _, err := store.Get(ctx, "chess club"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("names are case sensitive; expected ErrActivityNotFound, got %v", err)
	}
	if store.Count(ctx) != 9 {
		t.Errorf("failed calls must not change the registry")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	before, _ := store.Get(ctx, "Science Club")
	if _, err := store.Signup(ctx, "Science Club", "workflow@mergington.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Remove(ctx, "Science Club", "workflow@mergington.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := store.Get(ctx, "Science Club")

	if !slices.Equal(before.Participants, after.Participants) {
		t.Errorf("round trip changed roster: %v -> %v", before.Participants, after.Participants)
	}
}

func TestMemoryStore_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	catalog := store.List(ctx)
	catalog[0].Participants[0] = "intruder@mergington.edu"
	catalog[0].Participants = append(catalog[0].Participants, "extra@mergington.edu")

	got, _ := store.Get(ctx, catalog[0].Name)
	got.Participants[1] = "intruder@mergington.edu"

	chess, _ := store.Get(ctx, "Chess Club")
	if !slices.Equal(chess.Participants, []string{"michael@mergington.edu", "daniel@mergington.edu"}) {
		t.Errorf("snapshot mutation leaked into the store: %v", chess.Participants)
	}
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	_, _ = store.Signup(ctx, "Mathletes", "x@mergington.edu")
	_, _ = store.Remove(ctx, "Mathletes", "oliver@mergington.edu")
	store.Reset(ctx)

	math, _ := store.Get(ctx, "Mathletes")
	if !slices.Equal(math.Participants, []string{"oliver@mergington.edu", "amelia@mergington.edu"}) {
		t.Errorf("reset did not restore seed: %v", math.Participants)
	}

	// A second store built from the same defaults is unaffected by the first.
	other := newSeededStore(t)
	_, _ = other.Signup(ctx, "Mathletes", "y@mergington.edu")
	math, _ = store.Get(ctx, "Mathletes")
	if len(math.Participants) != 2 {
		t.Errorf("stores share roster state: %v", math.Participants)
	}
}

func TestMemoryStore_CapacityInformational(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	// Mathletes caps at 10 and starts with 2.
	for i := 0; i < 12; i++ {
		if _, err := store.Signup(ctx, "Mathletes", fmt.Sprintf("m%d@mergington.edu", i)); err != nil {
			t.Fatalf("signup %d: unexpected error: %v", i, err)
		}
	}
	math, _ := store.Get(ctx, "Mathletes")
	if len(math.Participants) != 14 {
		t.Errorf("expected 14 participants past the advertised cap, got %d", len(math.Participants))
	}
	if store.CapacityEnforced() {
		t.Error("enforcement should be off by default")
	}
}

func TestMemoryStore_CapacityEnforced(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t, WithCapacityEnforcement(true))

	for i := 0; i < 8; i++ {
		if _, err := store.Signup(ctx, "Mathletes", fmt.Sprintf("m%d@mergington.edu", i)); err != nil {
			t.Fatalf("signup %d: unexpected error: %v", i, err)
		}
	}
	size, err := store.Signup(ctx, "Mathletes", "late@mergington.edu")
	if !errors.Is(err, ErrActivityFull) {
		t.Fatalf("expected ErrActivityFull, got %v", err)
	}
	if size != 10 {
		t.Errorf("expected roster to stay at 10, got %d", size)
	}

	// Duplicates are still reported as duplicates on a full roster.
	if _, err := store.Signup(ctx, "Mathletes", "oliver@mergington.edu"); !errors.Is(err, ErrAlreadySignedUp) {
		t.Errorf("expected ErrAlreadySignedUp, got %v", err)
	}

	// Removing frees a spot.
	if _, err := store.Remove(ctx, "Mathletes", "m0@mergington.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Signup(ctx, "Mathletes", "late@mergington.edu"); err != nil {
		t.Errorf("expected a freed spot, got %v", err)
	}
}

func TestMemoryStore_CustomSeed(t *testing.T) {
	ctx := context.Background()
	seed := []model.Activity{
		{Name: "Robotics", Description: "Build robots", Schedule: "Mondays", MaxParticipants: 8},
		{Name: "Debate", Participants: []string{"a@mergington.edu"}},
	}
	store := newSeededStore(t, WithSeed(seed))

	if got := store.List(ctx).Names(); !slices.Equal(got, []string{"Robotics", "Debate"}) {
		t.Errorf("unexpected names %v", got)
	}

	// The caller's slice is not aliased.
	seed[1].Participants[0] = "changed@mergington.edu"
	debate, _ := store.Get(ctx, "Debate")
	if debate.Participants[0] != "a@mergington.edu" {
		t.Errorf("seed slice aliased into store")
	}
}

func TestMemoryStore_InvalidSeed(t *testing.T) {
	cases := map[string]struct {
		seed []model.Activity
		want error
	}{
		"empty name":      {[]model.Activity{{Name: ""}}, ErrInvalidActivity},
		"duplicate name":  {[]model.Activity{{Name: "A"}, {Name: "A"}}, ErrDuplicateActivity},
		"duplicate email": {[]model.Activity{{Name: "A", Participants: []string{"x", "x"}}}, ErrAlreadySignedUp},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewMemoryStore(WithSeed(tc.seed)); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	const workers = 32
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				email := fmt.Sprintf("w%d-%d@mergington.edu", w, i)
				if _, err := store.Signup(ctx, "Gym Class", email); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				_ = store.List(ctx)
			}
		}(w)
	}
	wg.Wait()

	gym, _ := store.Get(ctx, "Gym Class")
	if len(gym.Participants) != 2+workers*perWorker {
		t.Errorf("expected %d participants, got %d", 2+workers*perWorker, len(gym.Participants))
	}
}

func TestMemoryStore_ConcurrentDuplicateSignup(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	const racers = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Signup(ctx, "Art Workshop", "same@mergington.edu"); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Errorf("expected exactly one winner, got %d", success)
	}
	art, _ := store.Get(ctx, "Art Workshop")
	if len(art.Participants) != 3 {
		t.Errorf("expected 3 participants, got %d", len(art.Participants))
	}
}
