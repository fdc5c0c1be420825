package worker_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	queue "github.com/mergington/activities/internal/adapters/mq/queue"
	worker "github.com/mergington/activities/internal/adapters/mq/worker"
	model "github.com/mergington/activities/internal/domain/model"
	logging "github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	_ = logging.SetLevelString("error")
}

type recordingSink struct {
	mu      sync.Mutex
	changes []worker.Change
	fail    map[string]error
}

func (s *recordingSink) Deliver(_ context.Context, c worker.Change) error { //nolint:gocritic // hugeParam
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[c.Email]; ok {
		return err
	}
	s.changes = append(s.changes, c)
	return nil
}

func (s *recordingSink) emails() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.changes))
	for i, c := range s.changes {
		out[i] = c.Email
	}
	return out
}

func signup(email string) worker.Change {
	return worker.Change{Kind: model.ChangeSignup, Activity: "Chess Club", Email: email, RosterSize: 3, At: time.Now()}
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool draining a queue into a recording sink", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		sink := &recordingSink{fail: map[string]error{"bad@mergington.edu": errors.New("rejected")}}
		pool := worker.NewPool(3, q, sink)
		pool.Start(ctx)
		pool.Start(ctx) // second start is a no-op

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When changes are enqueued and the pool shuts down", func() {
			for i := 0; i < 20; i++ {
				convey.So(q.Enqueue(ctx, signup(fmt.Sprintf("s%d@mergington.edu", i))), convey.ShouldBeTrue)
			}
			convey.So(q.Enqueue(ctx, signup("bad@mergington.edu")), convey.ShouldBeTrue)

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then every change should be delivered or counted as failed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(sink.emails()), convey.ShouldEqual, 20)
				convey.So(pool.Delivered(), convey.ShouldEqual, 20)
				convey.So(pool.Failed(), convey.ShouldEqual, 1)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool that was never started", t, func() {
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(0, q, &recordingSink{})

		convey.Convey("Then shutdown should return immediately", func() {
			convey.So(pool.Size(), convey.ShouldEqual, 2)
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a sink that blocks forever", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewInMemoryQueue()
		block := make(chan struct{})
		pool := worker.NewPool(1, q, worker.SinkFunc(func(context.Context, worker.Change) error {
			<-block
			return nil
		}))
		pool.Start(ctx)
		_ = q.Enqueue(ctx, signup("slow@mergington.edu"))

		convey.Convey("Then shutdown should give up when its context expires", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer stop()
			err := pool.Shutdown(shutdownCtx)
			convey.So(err, convey.ShouldNotBeNil)
			close(block)
			cancel()
		})
	})
}

func TestWorkerStopsOnContext(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan worker.Change)
		w := worker.NewInMemoryWorker(chanQueue(ch), &recordingSink{}, worker.WithName("solo"))
		go w.Run(ctx)

		convey.Convey("When its context is cancelled", func() {
			cancel()

			convey.Convey("Then Run should return", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					t.Fatal("worker did not stop")
				}
			})
		})
	})
}

type chanQueue chan worker.Change

func (c chanQueue) Dequeue(context.Context) <-chan worker.Change { return c }

func TestMultiSinkAndLogSink(t *testing.T) {
	convey.Convey("Given a multi sink with a log sink and a recorder", t, func() {
		rec := &recordingSink{}
		sink := worker.MultiSink{worker.NewLogSink(nil), rec}

		convey.Convey("When delivering a change", func() {
			err := sink.Deliver(context.Background(), signup("m@mergington.edu"))

			convey.Convey("Then both sinks should see it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.emails(), convey.ShouldResemble, []string{"m@mergington.edu"})
			})
		})

		convey.Convey("When an inner sink fails", func() {
			failing := worker.MultiSink{worker.SinkFunc(func(context.Context, worker.Change) error {
				return errors.New("boom")
			}), rec}
			err := failing.Deliver(context.Background(), signup("n@mergington.edu"))

			convey.Convey("Then delivery should stop at the error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(rec.emails(), convey.ShouldBeEmpty)
			})
		})
	})
}

func enrollmentOf(activity string) (float64, bool) {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0, false
	}
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "_enrollment") {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "activity" && lp.GetValue() == activity {
					return m.GetGauge().GetValue(), true
				}
			}
		}
	}
	return 0, false
}

func TestLogSinkLeavesEnrollmentToStore(t *testing.T) {
	convey.Convey("Given an enrollment gauge already at the current roster size", t, func() {
		metrics.UpdateEnrollment("Sink Order Club", 4)

		convey.Convey("When an older change arrives late through the log sink", func() {
			stale := worker.Change{Kind: model.ChangeSignup, Activity: "Sink Order Club", Email: "a@mergington.edu", RosterSize: 3, At: time.Now()}
			err := worker.NewLogSink(nil).Deliver(context.Background(), stale)

			convey.Convey("Then the gauge should keep the current size", func() {
				convey.So(err, convey.ShouldBeNil)
				v, ok := enrollmentOf("Sink Order Club")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, 4)
			})
		})
	})
}
