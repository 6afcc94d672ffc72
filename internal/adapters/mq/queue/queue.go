// Package queue holds simulation jobs between submission and the worker
// pool. The in-memory implementation is a bounded buffered channel that
// never blocks producers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/pkg/metrics"
)

const defaultCapacity = 10_000

// Queue provides non-blocking enqueue and blocking dequeue of jobs.
type Queue interface {
	// Enqueue adds job or fails fast with ErrFull or ErrClosed.
	Enqueue(ctx context.Context, job model.Job) error
	// Next blocks until a job is available, ctx is done, or the queue is
	// closed and drained, in which case it returns ErrClosed.
	Next(ctx context.Context) (model.Job, error)
	Len(ctx context.Context) int
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan model.Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan model.Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, job model.Job) error { //nolint:gocritic // jobs travel by value through the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		q.reject("context_cancelled")
		return err
	}
	select {
	case q.jobs <- job:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		q.reject("queue_full")
		return ErrFull
	}
}

// Next returns the oldest queued job.
func (q *InMemoryQueue) Next(ctx context.Context) (model.Job, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return model.Job{}, ErrClosed
		}
		metrics.RecordQueueDequeue()
		q.observe()
		return job, nil
	case <-ctx.Done():
		return model.Job{}, ctx.Err()
	}
}

// Len returns the number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return q.observe()
}

// Close stops accepting jobs. Queued jobs remain available to Next.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() int {
	n := len(q.jobs)
	metrics.UpdateQueueSize(n)
	metrics.UpdateQueueUtilization(float64(n) / float64(q.capacity))
	return n
}

func (q *InMemoryQueue) reject(reason string) {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
}
