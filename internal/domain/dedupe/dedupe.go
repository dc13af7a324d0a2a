// Package dedupe tracks calendar event ids seen at intake so a duplicate
// submission of the same event cannot be classified twice into one audit.
package dedupe

import (
	"context"
	"sync"
)

// defaultMaxSize bounds the seen-set; calendar syncs resend recent events,
// so FIFO eviction of the oldest ids is enough.
const defaultMaxSize = 50000

// Deduper records seen event ids for at-most-once intake.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing a retry after a failed enqueue.
	Unrecord(ctx context.Context, id string)

	// Size returns the current number of recorded ids.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring of
// insertion order for eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	head    int
	maxSize int
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.order = make([]string, 0, d.maxSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// The id stays in the order ring; eviction skips ids no longer in the
	// map, so a stale slot costs one skipped step later.
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// evictOldest drops the oldest still-recorded id. Must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for d.head < len(d.order) {
		id := d.order[d.head]
		d.head++
		if _, ok := d.seen[id]; ok {
			delete(d.seen, id)
			return
		}
	}
	// Ring fully consumed; reset it.
	d.order = d.order[:0]
	d.head = 0
}
