// Package repository defines the normalized-schedule store interface and errors.
package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	model "github.com/strideworks/stride/internal/domain/model"
	types "github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: week ASC, then weekday ASC (Monday first), then slot ASC.
// The BST comparator's "less" means earlier in the calendar, so in-order
// traversal walks the plan from the first week's Monday to the last
// week's Sunday. Node priorities are a hash of the slot key, which keeps
// the tree balanced in expectation regardless of insertion order.

// daySlots leaves room for unknown day labels after Sunday.
const daySlots = 8

var dayIndexByName = func() map[string]int64 {
	m := make(map[string]int64, len(types.Days()))
	for i, d := range types.Days() {
		m[strings.ToLower(d.String())] = int64(i)
	}
	return m
}()

// calendarOrder folds (week, day) into one sortable key. Days the plan
// grid does not know sort after Sunday within their week.
func calendarOrder(week int, day string) int64 {
	idx, ok := dayIndexByName[strings.ToLower(day)]
	if !ok {
		idx = daySlots - 1
	}
	return int64(week)*daySlots + idx
}

func slotKey(week int, day string) string {
	return fmt.Sprintf("%d:%s", week, strings.ToLower(day))
}

// node is one treap node keyed by calendar order.
type node struct {
	slot  string
	order int64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aOrder, aSlot) comes earlier in the calendar than
// (bOrder, bSlot).
func less(aOrder int64, aSlot string, bOrder int64, bSlot string) bool {
	if aOrder != bOrder {
		return aOrder < bOrder
	}
	return aSlot < bSlot
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// slotPriority derives a stable pseudo-random heap priority from the slot
// key so the treap stays balanced without a random source.
func slotPriority(slot string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(slot))
	return h.Sum64()
}

func insert(n *node, slot string, order int64) *node {
	if n == nil {
		return &node{slot: slot, order: order, prio: slotPriority(slot), size: 1}
	}
	if less(order, slot, n.order, n.slot) {
		n.left = insert(n.left, slot, order)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, slot, order)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, slot string, order int64) *node {
	if n == nil {
		return nil
	}
	if order == n.order && slot == n.slot {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, slot, order)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, slot, order)
		}
	} else if less(order, slot, n.order, n.slot) {
		n.left = deleteNode(n.left, slot, order)
	} else {
		n.right = deleteNode(n.right, slot, order)
	}
	fix(n)
	return n
}

// position returns the 1-based in-order index of a slot, or 0 if absent.
// Runs in O(log n) using the subtree sizes.
func position(n *node, order int64, slot string) int {
	pos := 0
	for n != nil {
		if order == n.order && slot == n.slot {
			return pos + nsize(n.left) + 1
		}
		if less(order, slot, n.order, n.slot) {
			n = n.left
		} else {
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collectFirstN appends up to limit entries in calendar order.
func collectFirstN(n *node, limit int, bySlot map[string]model.NormalizedWorkout, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectFirstN(n.left, limit, bySlot, out)
	if len(*out) < limit {
		if w, exists := bySlot[n.slot]; exists {
			*out = append(*out, Entry{Week: w.Week, Day: w.Day, Workout: w})
		}
	}
	if len(*out) < limit {
		collectFirstN(n.right, limit, bySlot, out)
	}
}

// collectAll appends all entries in calendar order.
func collectAll(n *node, bySlot map[string]model.NormalizedWorkout, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, bySlot, out)
	if w, ok := bySlot[n.slot]; ok {
		*out = append(*out, Entry{Week: w.Week, Day: w.Day, Workout: w})
	}
	collectAll(n.right, bySlot, out)
}

// assignPositions numbers entries already in calendar order.
func assignPositions(entries []Entry) {
	for i := range entries {
		entries[i].Position = i + 1
	}
}

// Snapshot represents an immutable snapshot of the schedule state.
type Snapshot struct {
	// Position in O(1) for reads.
	PositionBySlot map[string]int

	// Leading schedule cache up to the configured size.
	ScheduleCache []Entry
}

type TreapStore struct {
	mu                sync.RWMutex
	root              *node
	bySlot            map[string]model.NormalizedWorkout
	snapshotInterval  time.Duration
	scheduleCacheSize int

	// snapshot is an atomic pointer to the last published Snapshot.
	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval:  1 * time.Second,
		scheduleCacheSize: 500,
		bySlot:            make(map[string]model.NormalizedWorkout),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	s.startMetricsUpdater(ctx)

	return s
}

// startPeriodicSnapshots starts a background goroutine that publishes
// snapshots at the configured interval.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (s *TreapStore) publishSnapshot() {
	start := time.Now()
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordStoreSnapshotRebuildDuration(ms)
	metrics.UpdateStoreSnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementStoreSnapshotCount()
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes
// lock is held).
func (s *TreapStore) publishSnapshotInternal() {
	all := make([]Entry, 0, len(s.bySlot))
	collectAll(s.root, s.bySlot, &all)
	assignPositions(all)

	positionBySlot := make(map[string]int, len(all))
	for _, e := range all {
		positionBySlot[slotKey(e.Week, e.Day)] = e.Position
	}

	cache := all
	if len(cache) > s.scheduleCacheSize {
		cache = cache[:s.scheduleCacheSize]
	}

	s.snapshot.Store(&Snapshot{
		PositionBySlot: positionBySlot,
		ScheduleCache:  cache,
	})
}

// CachedSchedule returns the leading entries from the last published
// snapshot. It never blocks on writers; before the first snapshot it
// returns nil.
func (s *TreapStore) CachedSchedule() []Entry {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.ScheduleCache
}

// Close gracefully shuts down the background goroutines.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Upsert implements Store.Upsert.
func (s *TreapStore) Upsert(ctx context.Context, w model.NormalizedWorkout) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	slot := slotKey(w.Week, w.Day)
	order := calendarOrder(w.Week, w.Day)

	s.mu.Lock()
	_, existed := s.bySlot[slot]
	s.bySlot[slot] = w
	if !existed {
		s.root = insert(s.root, slot, order)
	}
	count := len(s.bySlot)
	s.mu.Unlock()

	if !existed {
		metrics.UpdateStoreWorkoutsTotal(count)
	}
	return !existed, nil
}

// Get implements Store.Get.
func (s *TreapStore) Get(ctx context.Context, week int, day string) (model.NormalizedWorkout, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.bySlot[slotKey(week, day)]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.NormalizedWorkout{}, ErrNotFound
	}
	return w, nil
}

// Position implements Store.Position in O(log n).
func (s *TreapStore) Position(ctx context.Context, week int, day string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	pos := position(s.root, calendarOrder(week, day), slotKey(week, day))
	if pos == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return 0, ErrNotFound
	}
	return pos, nil
}

// FirstN implements Store.FirstN.
func (s *TreapStore) FirstN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectFirstN(s.root, n, s.bySlot, &out)
	assignPositions(out)
	return out, nil
}

// All implements Store.All.
func (s *TreapStore) All(ctx context.Context) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.bySlot))
	collectAll(s.root, s.bySlot, &out)
	assignPositions(out)
	return out, nil
}

// Count returns the total number of populated slots.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySlot)
}

// startMetricsUpdater starts a background goroutine that refreshes store
// gauges every few seconds.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateStoreWorkoutsTotal(s.Count(ctx))
			}
		}
	}()
}
