// Package worker drains roster change notifications into a Sink.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/mergington/activities/internal/adapters/mq/queue"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

const (
	defaultWorkerCount = 2
)

// Change is what workers read off the queue.
type Change = model.RosterChange

// Sink receives every roster change exactly once.
type Sink interface {
	Deliver(ctx context.Context, c Change) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c Change) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam
	return f(ctx, c)
}

// Queue defines how workers receive changes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Change
}

// InMemoryWorker delivers changes from the queue until it is closed and
// drained, or until ctx is done.
type InMemoryWorker struct {
	queue  Queue
	sink   Sink
	name   string
	done   chan struct{}
	logger logger.Logger

	delivered atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue: q,
		sink:  sink,
		name:  "worker",
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get()
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	changes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := w.deliver(ctx, c); err != nil {
				w.logger.Error(ctx, "roster change delivery failed", logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam
	if err := w.sink.Deliver(ctx, c); err != nil {
		w.failed.Add(1)
		metrics.RecordNotifyFailed()
		return fmt.Errorf("deliver %s %q/%q: %w", c.Kind, c.Activity, c.Email, err)
	}
	w.delivered.Add(1)
	metrics.RecordNotifyDelivered()
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   queue.Queue
	logger  logger.Logger

	startOnce sync.Once
	started   atomic.Bool
}

// NewPool creates a pool of workerCount workers. A count below one falls
// back to the default.
func NewPool(workerCount int, q queue.Queue, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("notify-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("notify-worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, sink, wopts...)
	}
	return p
}

// Start launches every worker once.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for _, w := range p.workers {
			go w.Run(ctx)
		}
		p.started.Store(true)
		metrics.UpdateNotifyWorkers(len(p.workers))
	})
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Delivered returns how many changes the sink accepted across the pool.
func (p *Pool) Delivered() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.delivered.Load()
	}
	return n
}

// Failed returns how many changes the sink rejected across the pool.
func (p *Pool) Failed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.failed.Load()
	}
	return n
}

// Shutdown closes the queue and waits for workers to drain it. Returns an
// error if ctx ends first.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if !p.started.Load() {
		return nil
	}
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("notify pool shutdown: %w", ctx.Err())
		}
	}
	metrics.UpdateNotifyWorkers(0)
	return nil
}
