package worker

import (
	"context"
	"time"

	"github.com/mergington/activities/pkg/logger"
)

// LogSink writes each roster change to the audit log. The enrollment gauge is
// owned by the store, which sets it under its lock.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink returns a sink logging through l, or the global logger if nil.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.Get()
	}
	return &LogSink{logger: l.Named("roster-audit")}
}

// Deliver implements Sink.
func (s *LogSink) Deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam
	s.logger.Info(ctx, "roster changed",
		logger.String("kind", string(c.Kind)),
		logger.String("activity", c.Activity),
		logger.String("email", c.Email),
		logger.Int("roster_size", c.RosterSize),
		logger.String("at", c.At.UTC().Format(time.RFC3339Nano)),
		logger.String("request_id", c.RequestID),
	)
	return nil
}

// MultiSink fans a change out to several sinks, stopping at the first error.
type MultiSink []Sink

// Deliver implements Sink.
func (m MultiSink) Deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam
	for _, s := range m {
		if err := s.Deliver(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
