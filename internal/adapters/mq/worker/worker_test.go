package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/gwbadge/internal/adapters/mq/queue"
	worker "github.com/okian/gwbadge/internal/adapters/mq/worker"
	model "github.com/okian/gwbadge/internal/domain/model"
	logging "github.com/okian/gwbadge/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockSource struct {
	ch chan queue.Summary
}

func newMockSource() *mockSource {
	return &mockSource{ch: make(chan queue.Summary, 10)}
}

func (m *mockSource) Dequeue(context.Context) <-chan queue.Summary {
	return m.ch
}

type mockRecorder struct {
	mu    sync.RWMutex
	saved map[string]model.GameweekSummary
	fail  map[string]error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		saved: make(map[string]model.GameweekSummary),
		fail:  make(map[string]error),
	}
}

func key(s model.GameweekSummary) string {
	return fmt.Sprintf("%s/%d", s.SquadID, s.Gameweek)
}

func (m *mockRecorder) PutSummary(_ context.Context, s queue.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[s.SquadID]; ok {
		return err
	}
	m.saved[key(s)] = s
	return nil
}

func (m *mockRecorder) setError(squad string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[squad] = err
}

func (m *mockRecorder) get(k string) (model.GameweekSummary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.saved[k]
	return s, ok
}

func (m *mockRecorder) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()
		source := newMockSource()
		recorder := newMockRecorder()
		w := worker.NewInMemoryWorker(source, recorder, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a summary arrives", func() {
			source.ch <- model.GameweekSummary{SquadID: "42", Gameweek: 3, Earned: 5, Total: 40}

			convey.Convey("Then it is recorded", func() {
				convey.So(waitFor(func() bool { _, ok := recorder.get("42/3"); return ok }), convey.ShouldBeTrue)
				s, _ := recorder.get("42/3")
				convey.So(s.Earned, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When recording fails", func() {
			recorder.setError("bad", errors.New("disk full"))
			source.ch <- model.GameweekSummary{SquadID: "bad", Gameweek: 1}
			source.ch <- model.GameweekSummary{SquadID: "good", Gameweek: 1}

			convey.Convey("Then the worker keeps going", func() {
				convey.So(waitFor(func() bool { _, ok := recorder.get("good/1"); return ok }), convey.ShouldBeTrue)
				_, ok := recorder.get("bad/1")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a worker whose source closes", t, func() {
		_ = logging.Init()
		source := newMockSource()
		w := worker.NewInMemoryWorker(source, newMockRecorder())
		go w.Run(context.Background())
		close(source.ch)

		convey.Convey("Then Run returns", func() {
			select {
			case <-w.Done():
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(200))
		recorder := newMockRecorder()
		pool := worker.NewPool(4, q, recorder)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When many summaries are enqueued and the pool shuts down", func() {
			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for gw := 1; gw <= 20; gw++ {
						_ = q.Enqueue(ctx, model.GameweekSummary{SquadID: fmt.Sprintf("s%d", id), Gameweek: gw})
					}
				}(i)
			}
			wg.Wait()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then every summary is drained before workers exit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(recorder.count(), convey.ShouldEqual, 100)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with the default worker count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), newMockRecorder())
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
