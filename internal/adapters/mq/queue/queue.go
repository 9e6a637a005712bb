// Package queue buffers gameweek summaries between the evaluation path and
// the history workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/gwbadge/internal/domain/model"
	"github.com/okian/gwbadge/pkg/metrics"
)

const defaultCapacity = 1024

// Summary is the payload flowing through the queue.
type Summary = model.GameweekSummary

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a summary without blocking. It fails with ErrFull,
	// ErrClosed or the context's error.
	Enqueue(ctx context.Context, s Summary) error
	// Dequeue returns a channel that is closed once the queue is closed
	// and drained.
	Dequeue(ctx context.Context) <-chan Summary
	Len() int
	Cap() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	items    chan Summary
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Summary, q.capacity)
	metrics.UpdateHistoryQueue(0, q.capacity)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Summary) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordHistoryEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordHistoryEnqueueError("context_cancelled")
		return err
	}

	select {
	case q.items <- s:
		metrics.UpdateHistoryQueue(len(q.items), q.capacity)
		return nil
	default:
		metrics.RecordHistoryEnqueueError("queue_full")
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Summary {
	out := make(chan Summary)
	go func() {
		defer close(out)
		for s := range q.items {
			select {
			case out <- s:
				metrics.UpdateHistoryQueue(len(q.items), q.capacity)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued summaries.
func (q *InMemoryQueue) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close stops accepting summaries. Already queued ones can still be
// dequeued. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
