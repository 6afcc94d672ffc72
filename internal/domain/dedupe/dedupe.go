// Package dedupe tracks client request ids so asynchronous game submissions
// run at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 50_000

// Deduper maps request ids to the job that first claimed them.
type Deduper interface {
	// Claim records requestID for jobID unless it is already known. It
	// returns the owning job id and whether the request was a duplicate.
	Claim(ctx context.Context, requestID, jobID string) (owner string, duplicate bool)

	// Release forgets requestID so a later submission can claim it again.
	// Used when a claimed job could not be queued.
	Release(ctx context.Context, requestID string)

	Size() int64
}

type entry struct {
	requestID string
	jobID     string
}

// inMemoryDeduper keeps claims in insertion order. When bounded, the oldest
// claim is evicted to make room.
type inMemoryDeduper struct {
	mu      sync.Mutex
	byID    map[string]*list.Element
	order   *list.List
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.byID = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, requestID, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.byID[requestID]; ok {
		return el.Value.(entry).jobID, true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.byID, oldest.Value.(entry).requestID)
	}
	d.byID[requestID] = d.order.PushBack(entry{requestID: requestID, jobID: jobID})
	return jobID, false
}

func (d *inMemoryDeduper) Release(_ context.Context, requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.byID[requestID]; ok {
		d.order.Remove(el)
		delete(d.byID, requestID)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
