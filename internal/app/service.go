// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	rosterqueue "github.com/mergington/activities/internal/adapters/mq/queue"
	workerpool "github.com/mergington/activities/internal/adapters/mq/worker"
	repository "github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

const (
	opSignup     = "signup"
	opUnregister = "unregister"

	defaultQueueSize   = 1024
	defaultWorkerCount = 2
)

// Service implements the API dependencies for the activity registry.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	queue *rosterqueue.InMemoryQueue
	pool  *workerpool.Pool
	sink  workerpool.Sink

	// Configuration
	seed            []model.Activity
	enforceCapacity bool
	queueSize       int
	workerCount     int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a registry instead of building an in-memory one.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSeed replaces the built-in activities of the in-memory registry.
func WithSeed(seed []model.Activity) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithCapacityEnforcement makes signups fail once max_participants is reached.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// WithNotifyQueueSize sets the maximum number of pending roster changes.
func WithNotifyQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithNotifyWorkers sets the number of roster change workers.
func WithNotifyWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithSink sets where roster changes are delivered. Defaults to the audit log.
func WithSink(sink workerpool.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. The registry is ready immediately; roster change
// delivery begins with Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		store, err := repository.NewMemoryStore(
			repository.WithSeed(s.seed),
			repository.WithCapacityEnforcement(s.enforceCapacity),
		)
		if err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
		s.store = store
	}
	if s.sink == nil {
		s.sink = workerpool.NewLogSink(s.logger)
	}
	return s, nil
}

// Start launches the roster change workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting activity service...")

	s.queue = rosterqueue.NewInMemoryQueue(rosterqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.sink)
	// Workers outlive the request that started them; Stop drains them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "activity service started",
		logger.Int("activities", s.store.Count(ctx)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)
	return nil
}

// Stop closes the roster change queue and waits for the workers to drain it
// or for ctx to end.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping activity service...")
	err := s.pool.Shutdown(ctx)
	s.started = false
	if err != nil {
		s.logger.Warn(ctx, "roster changes not fully drained", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "activity service stopped",
		logger.Any("delivered", s.pool.Delivered()),
		logger.Any("failed", s.pool.Failed()),
	)
	return nil
}

// ListActivities returns every activity with its roster, in registry order.
func (s *Service) ListActivities(ctx context.Context) types.Catalog {
	return s.store.List(ctx)
}

// Signup adds email to the named activity and returns the confirmation
// message.
func (s *Service) Signup(ctx context.Context, activity, email string) (string, error) {
	size, err := s.store.Signup(ctx, activity, email)
	if err != nil {
		s.reject(ctx, opSignup, activity, email, err)
		return "", fmt.Errorf("%s: %w", opSignup, err)
	}

	metrics.RecordSignup(activity)
	s.logger.Info(ctx, "student signed up",
		logger.String("activity", activity),
		logger.String("email", email),
		logger.Int("roster_size", size),
	)
	s.publish(ctx, model.ChangeSignup, activity, email, size)

	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes email from the named activity and returns the
// confirmation message.
func (s *Service) Unregister(ctx context.Context, activity, email string) (string, error) {
	size, err := s.store.Remove(ctx, activity, email)
	if err != nil {
		s.reject(ctx, opUnregister, activity, email, err)
		return "", fmt.Errorf("%s: %w", opUnregister, err)
	}

	metrics.RecordRemoval(activity)
	s.logger.Info(ctx, "student removed",
		logger.String("activity", activity),
		logger.String("email", email),
		logger.Int("roster_size", size),
	)
	s.publish(ctx, model.ChangeRemoval, activity, email, size)

	return fmt.Sprintf("Removed %s from %s", email, activity), nil
}

// Reset restores the seed activities.
func (s *Service) Reset(ctx context.Context) {
	s.store.Reset(ctx)
	s.logger.Warn(ctx, "registry reset to seed")
}

func (s *Service) reject(ctx context.Context, op, activity, email string, err error) {
	reason := rejectionReason(err)
	metrics.RecordRejection(op, reason)
	s.logger.Info(ctx, op+" rejected",
		logger.String("activity", activity),
		logger.String("email", email),
		logger.String("reason", reason),
	)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, repository.ErrParticipantNotFound):
		return "participant_not_found"
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return "already_signed_up"
	case errors.Is(err, repository.ErrActivityFull):
		return "activity_full"
	default:
		return "error"
	}
}

// publish hands a roster change to the workers. A full or stopped queue
// drops the change; the mutation itself has already succeeded.
func (s *Service) publish(ctx context.Context, kind model.ChangeKind, activity, email string, size int) {
	s.mu.RLock()
	q := s.queue
	started := s.started
	s.mu.RUnlock()

	if !started {
		return
	}

	change := model.RosterChange{
		Kind:       kind,
		Activity:   activity,
		Email:      email,
		RosterSize: size,
		At:         time.Now().UTC(),
		RequestID:  logger.RequestID(ctx),
	}
	// The request context may be cancelled once the response is written.
	if !q.Enqueue(context.WithoutCancel(ctx), change) {
		s.logger.Warn(ctx, "roster change dropped",
			logger.String("kind", string(kind)),
			logger.String("activity", activity),
		)
		return
	}
	metrics.UpdateNotifyQueueSize(q.Len(ctx))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	catalog := s.store.List(ctx)
	participants := 0
	for _, a := range catalog {
		participants += len(a.Participants)
	}

	stats := map[string]interface{}{
		"started":           s.started,
		"activities":        len(catalog),
		"participants":      participants,
		"enforceCapacity":   s.enforceCapacity,
		"notifyQueueSize":   s.queueSize,
		"notifyWorkerCount": s.workerCount,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["notifyQueueLength"] = queueLen
		stats["notifyDelivered"] = s.pool.Delivered()
		stats["notifyFailed"] = s.pool.Failed()

		metrics.UpdateNotifyQueueSize(queueLen)
		metrics.UpdateActivitiesTotal(len(catalog))
	}

	return stats
}
