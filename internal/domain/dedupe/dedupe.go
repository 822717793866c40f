// Package dedupe keeps the goal-time projector from counting the same
// performance twice when evidence arrives from several sources.
package dedupe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	model "github.com/strideworks/stride/internal/domain/model"
)

// Fingerprint derives the identity of one performance observation. The
// source is deliberately excluded so a manually entered race and the same
// race synced from a watch collapse into one entry.
func Fingerprint(e model.PerformanceEvidence) string {
	day := "-"
	if e.Date != nil {
		day = e.Date.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("%.3f|%.0f|%s", e.DistanceKm, e.TimeSec, day)
}

// Deduper records seen evidence fingerprints so each observation is
// admitted at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether fingerprint was seen and
	// records it if not. Returns true if it was already seen.
	SeenAndRecord(ctx context.Context, fingerprint string) bool

	// Unrecord removes a fingerprint, allowing the observation to be
	// resubmitted after a failed ingest.
	Unrecord(ctx context.Context, fingerprint string)

	Size() int64
}

// node is one entry in the eviction list.
type node struct {
	fp   string
	next *node
}

func (n *node) reset() {
	n.fp = ""
	n.next = nil
}

// inMemoryDeduper tracks fingerprints in a map. In bounded mode
// (maxSize > 0) a linked list provides LIFO eviction and nodes are pooled;
// unbounded mode is a plain map with no eviction.
type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[string]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryDeduper creates an in-memory deduper. The default bound of
// 50000 fingerprints comfortably covers years of training history.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*node)
	if d.maxSize > 0 {
		d.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[fingerprint]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictLIFO()
		}
		n := d.nodePool.Get().(*node)
		n.fp = fingerprint
		n.next = d.head
		d.head = n
		d.seen[fingerprint] = n
	} else {
		d.seen[fingerprint] = nil
	}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, fingerprint string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, exists := d.seen[fingerprint]
	if !exists {
		return
	}
	delete(d.seen, fingerprint)

	if d.maxSize > 0 {
		if d.head == n {
			d.head = n.next
		} else {
			current := d.head
			for current != nil && current.next != n {
				current = current.next
			}
			if current != nil {
				current.next = n.next
			}
		}
		n.reset()
		d.nodePool.Put(n)
	}
	d.size.Add(-1)
}

// evictLIFO drops the oldest entry, the tail of the list. Caller holds the
// lock.
func (d *inMemoryDeduper) evictLIFO() {
	if len(d.seen) == 0 || d.head == nil {
		return
	}

	current := d.head
	if current.next == nil {
		delete(d.seen, current.fp)
		current.reset()
		d.nodePool.Put(current)
		d.head = nil
		d.size.Add(-1)
		return
	}

	var prev *node
	for current.next != nil {
		prev = current
		current = current.next
	}
	prev.next = nil
	delete(d.seen, current.fp)
	current.reset()
	d.nodePool.Put(current)
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
