// Package queue carries roster change notifications from the request path to
// the notification workers.
//
// Enqueue never blocks: a signup must not wait on whoever consumes its
// notification, so a full queue drops the change and counts it.
package queue

import (
	"context"
	"sync"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/pkg/metrics"
)

const (
	defaultQueueCapacity = 1024
)

// Change is the payload type flowing through the queue.
type Change = model.RosterChange

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a change to the queue.
	// Returns false if the queue is full, closed, or ctx is done.
	Enqueue(ctx context.Context, c Change) bool

	// Dequeue returns the receive side of the queue. The channel is closed
	// by Close once drained.
	Dequeue(ctx context.Context) <-chan Change

	// Len returns the current number of queued changes.
	Len(ctx context.Context) int

	// Close stops accepting changes. Already queued changes stay readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	changes  chan Change
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.changes = make(chan Change, q.capacity)

	metrics.UpdateNotifyQueueCapacity(q.capacity)
	metrics.UpdateNotifyQueueSize(0)
	return q
}

// Enqueue adds a change to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c Change) bool { //nolint:gocritic // hugeParam: sent by value over the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotifyDropped("closed")
		return false
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordNotifyDropped("context_cancelled")
		return false
	}

	select {
	case q.changes <- c:
		metrics.RecordNotifyEnqueued()
		metrics.UpdateNotifyQueueSize(len(q.changes))
		return true
	default:
		metrics.RecordNotifyDropped("queue_full")
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Change {
	return q.changes
}

// Len returns the current number of queued changes.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.changes)
	metrics.UpdateNotifyQueueSize(size)
	return size
}

// Capacity returns the queue bound.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting changes.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.changes)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
