// Package worker defines worker contracts for asynchronous cell normalization.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/pkg/logger"
	"github.com/strideworks/stride/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Cell abstracts what workers read off the queue.
// Using the model.DayCell type for consistency.
type Cell = model.DayCell

// Normalizer turns one raw day cell into a normalized workout.
type Normalizer interface {
	Normalize(ctx context.Context, c Cell) (model.NormalizedWorkout, error)
}

// Storer persists normalized workouts into the schedule.
type Storer interface {
	Upsert(ctx context.Context, w model.NormalizedWorkout) (bool, error)
}

// Queue defines how workers receive cells.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Cell
}

// Worker processes cells and writes normalized workouts using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining cells before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing cells.
type InMemoryWorker struct {
	queue      Queue
	normalizer Normalizer
	storer     Storer
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, normalizer Normalizer, storer Storer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		normalizer: normalizer,
		storer:     storer,
		name:       "worker", // default name
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"), // will be updated by options
	}

	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	cellChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case cell, ok := <-cellChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processCell(ctx, cell); err != nil {
				w.logger.Error(ctx, "error processing cell", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processCell handles a single cell.
func (w *InMemoryWorker) processCell(ctx context.Context, cell Cell) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	normStart := time.Now()
	workout, err := w.normalizer.Normalize(ctx, cell)
	metrics.RecordExtractionLatency(float64(time.Since(normStart).Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "normalize_error")
		metrics.RecordErrorByType("normalize_error", "high")
		w.logger.Error(ctx, "normalization failed for cell",
			logger.Int("week", cell.Week),
			logger.String("day", cell.Day.String()),
			logger.Error(err),
		)
		return fmt.Errorf("failed to normalize week %d %s: %w", cell.Week, cell.Day, err)
	}

	created, err := w.storer.Upsert(ctx, workout)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "schedule update failed for cell",
			logger.Int("week", cell.Week),
			logger.String("day", cell.Day.String()),
			logger.Error(err),
		)
		return fmt.Errorf("schedule update failed: %w", err)
	}

	metrics.RecordScheduleUpdate()
	metrics.RecordCellProcessed()
	if !created {
		w.logger.Debug(ctx, "replaced earlier normalization",
			logger.Int("week", cell.Week),
			logger.String("day", cell.Day.String()),
		)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	normalizer Normalizer
	storer     Storer

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, normalizer Normalizer, storer Storer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		normalizer:        normalizer,
		storer:            storer,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			normalizer,
			storer,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerCellsPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		metrics.UpdateWorkerCellsPerSecond(float64(p.processedCount) / timeDiff)
	}

	p.processedCount = 0
	p.lastProcessedTime = now
}

// RecordProcessedCell increments the processed cell count.
func (p *Pool) RecordProcessedCell() {
	p.processedCount++
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new cells
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
