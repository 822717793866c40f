// Package queue defines the contract for enqueuing and consuming plan cells.
//
// Implementations may use channels or more advanced structures. The engine
// ships with an in-memory bounded queue.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
	defaultBufferSize    = 100000
)

// Cell represents the payload type flowing through the queue.
// Using the model.DayCell type for type safety.
type Cell = model.DayCell

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a cell to the queue.
	// Returns false if the queue is full and the cell was not enqueued.
	Enqueue(ctx context.Context, c Cell) bool

	// Dequeue returns a channel that will receive cells as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Cell

	// Len returns the current number of queued cells.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new cells can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	cells      chan Cell
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.cells = make(chan Cell, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a cell to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c Cell) bool {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordQueueProcessingLatency(float64(latency))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.cells) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.cells <- c:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.cells)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive cells as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Cell {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Cell)
	go func() {
		defer close(dequeueChan)
		for cell := range q.cells {
			select {
			case dequeueChan <- cell:
				metrics.RecordQueueDequeue()
				currentSize := len(q.cells)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued cells.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.cells)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.cells)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
