package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/gwbadge/internal/adapters/mq/queue"
	"github.com/okian/gwbadge/pkg/logger"
	"github.com/okian/gwbadge/pkg/metrics"
)

// Recorder persists one summary.
type Recorder interface {
	PutSummary(ctx context.Context, s queue.Summary) error
}

// Source is where workers read summaries from.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Summary
}

// InMemoryWorker drains a Source into a Recorder.
type InMemoryWorker struct {
	source   Source
	recorder Recorder
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(source Source, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		source:   source,
		recorder: recorder,
		name:     "history-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("history-worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run records summaries until the source closes, ctx is canceled or Stop
// is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-items:
			if !ok {
				return
			}
			if err := w.record(ctx, s); err != nil {
				w.logger.Error(ctx, "failed to record summary", logger.Error(err))
			}
		}
	}
}

// Stop signals the worker to exit without draining.
func (w *InMemoryWorker) Stop() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown stops the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.Stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) record(ctx context.Context, s queue.Summary) error {
	if err := w.recorder.PutSummary(ctx, s); err != nil {
		metrics.RecordHistoryRecordError()
		return fmt.Errorf("record summary %s/%d: %w", s.SquadID, s.Gameweek, err)
	}
	metrics.RecordHistoryRecorded()
	w.logger.Debug(ctx, "summary recorded",
		logger.String("squad_id", s.SquadID), logger.Int("gw", s.Gameweek))
	return nil
}

// Pool runs several workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   queue.Queue
	logger  logger.Logger
}

// NewPool creates workerCount workers. A count below one uses the number
// of CPUs.
func NewPool(workerCount int, q queue.Queue, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("history-pool"),
	}
	for i := range p.workers {
		name := "history-worker-" + strconv.Itoa(i)
		p.workers[i] = NewInMemoryWorker(q, recorder,
			WithName(name), WithLogger(p.logger.Named(name)))
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateHistoryWorkers(len(p.workers))
}

// Shutdown closes the queue and lets workers drain it. Workers still
// running when ctx expires are stopped and the remaining summaries are
// dropped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			timedOut = true
			w.Stop()
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateHistoryWorkers(0)
	if timedOut {
		return fmt.Errorf("history pool shutdown: %w", ctx.Err())
	}
	return nil
}
