package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mergington/activities/internal/domain/model"
)

func change(email string) Change {
	return Change{Kind: model.ChangeSignup, Activity: "Chess Club", Email: email, RosterSize: 3, At: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, change("a@mergington.edu")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.Email != "a@mergington.edu" {
		t.Errorf("expected a@mergington.edu, got %v", got.Email)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, change("1")) || !q.Enqueue(ctx, change("2")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, change("3")) {
		t.Error("expected enqueue to fail when full")
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(0))
	if q.Capacity() != defaultQueueCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultQueueCapacity, q.Capacity())
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	_ = q.Enqueue(ctx, change("before"))
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if q.Enqueue(ctx, change("after")) {
		t.Error("expected enqueue after close to fail")
	}

	// Pending changes drain, then the channel reports closed.
	var drained []string
	for c := range q.Dequeue(ctx) {
		drained = append(drained, c.Email)
	}
	if len(drained) != 1 || drained[0] != "before" {
		t.Errorf("unexpected drained changes %v", drained)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, change("x")) {
		t.Error("expected enqueue with cancelled context to fail")
	}
}

func TestInMemoryQueue_ConcurrentEnqueueAndClose(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10_000))
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = q.Enqueue(ctx, change(fmt.Sprintf("%d-%d", w, i)))
			}
		}(w)
	}
	// Closing while producers run must not panic with a send on a closed channel.
	time.Sleep(time.Millisecond)
	_ = q.Close()
	wg.Wait()
}
