// Package service wires the normalization pipeline together: plan loading,
// cell queueing, the worker pool that runs locale cleanup, segment parsing
// and intensity extraction, the schedule store, and goal-time projection.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cellqueue "github.com/strideworks/stride/internal/adapters/mq/queue"
	workerpool "github.com/strideworks/stride/internal/adapters/mq/worker"
	repository "github.com/strideworks/stride/internal/adapters/repository"
	"github.com/strideworks/stride/internal/domain/dedupe"
	"github.com/strideworks/stride/internal/domain/intensity"
	"github.com/strideworks/stride/internal/domain/locale"
	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/planparse"
	"github.com/strideworks/stride/internal/domain/projection"
	"github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/internal/domain/units"
	"github.com/strideworks/stride/internal/domain/zones"
	"github.com/strideworks/stride/pkg/logger"
	"github.com/strideworks/stride/pkg/metrics"
)

// Drain polling cadence and the number of consecutive stable observations
// required before a drained queue is considered settled.
const (
	drainPollInterval = 20 * time.Millisecond
	drainStableChecks = 3
)

// Workout types that describe some form of running. Everything else is a
// non-run day and never gets a pace bucket by default.
var runTypes = map[string]bool{
	"easy-run":          true,
	"recovery":          true,
	"tempo":             true,
	"progression":       true,
	"hills":             true,
	"hill-pyramid":      true,
	"incline-treadmill": true,
	"trail-run":         true,
	"fast-finish":       true,
	"lrl":               true,
	"race":              true,
	"training-race":     true,
}

// pipelineNormalizer implements worker.Normalizer by chaining the domain
// stages: locale normalization, cell parsing, and intensity extraction.
type pipelineNormalizer struct {
	fallbackUnit types.DistanceUnit
}

func (n *pipelineNormalizer) Normalize(ctx context.Context, cell workerpool.Cell) (model.NormalizedWorkout, error) {
	if strings.TrimSpace(cell.Raw) == "" {
		return model.NormalizedWorkout{}, ErrEmptyCell
	}

	normalized := locale.NormalizePlanText(cell.Raw)
	parsed := planparse.ParseCell(normalized)
	if parsed.Raw == "" {
		return model.NormalizedWorkout{}, ErrEmptyCell
	}

	w := model.NormalizedWorkout{
		ID:         uuid.New().String(),
		Week:       cell.Week,
		Day:        cell.Day.String(),
		Raw:        cell.Raw,
		Normalized: parsed.Raw,
		TypeGuess:  parsed.TypeGuess,
		Segments:   parsed.Segments,
		Metrics:    parsed.Metrics,
	}

	fallback := n.fallbackUnit
	if paceText, ok := intensity.ExtractPaceTarget(parsed.Raw); ok {
		w.PaceDisplay = units.ConvertPaceForDisplay(paceText, fallback, &fallback)
	}
	if effortText, ok := intensity.ExtractEffortTarget(parsed.Raw); ok {
		w.EffortDisplay = effortText
	}

	w.Targets = intensity.DeriveIntensityTargets(intensity.TargetInputs{
		PaceText:     parsed.Raw,
		EffortText:   parsed.Raw,
		FallbackUnit: &fallback,
	})
	if w.Targets.Pace != nil && w.Targets.Pace.Bucket == nil {
		if bucket, ok := intensity.ClassifyRunBucket(parsed.TypeGuess, "", parsed.Raw, runTypes[parsed.TypeGuess]); ok {
			b := bucket
			w.Targets.Pace.Bucket = &b
		}
	}

	if w.Targets.Pace != nil {
		metrics.RecordPaceOutcome(w.Targets.Pace.Mode.String())
	}
	if w.Targets.Effort != nil {
		metrics.RecordEffortOutcome(w.Targets.Effort.Kind.String())
	}

	return w, nil
}

// Service implements the normalization engine facade used by the CLI and
// the verification harness.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	cellQueue  cellqueue.Queue
	normalizer workerpool.Normalizer
	workerPool *workerpool.Pool

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	scheduleCacheSize int
	snapshotInterval  time.Duration
	fallbackUnit      types.DistanceUnit
	goalDistanceKm    float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of normalization workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the cell queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the evidence deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithScheduleCacheSize sets how many leading entries the store snapshot
// keeps precomputed.
func WithScheduleCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.scheduleCacheSize = size
		}
	}
}

// WithSnapshotInterval sets the store snapshot rebuild interval.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithFallbackUnit sets the unit assumed for bare distances and paces.
func WithFallbackUnit(unit types.DistanceUnit) Option {
	return func(s *Service) {
		s.fallbackUnit = unit
	}
}

// WithGoalDistanceKm sets the race distance goal projections target.
func WithGoalDistanceKm(km float64) Option {
	return func(s *Service) {
		if km > 0 {
			s.goalDistanceKm = km
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 2,
		queueSize:         100000,
		dedupeSize:        50000,
		scheduleCacheSize: 500,
		fallbackUnit:      types.KM,
		goalDistanceKm:    10,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting normalization service")

	storeOpts := []repository.Option{
		repository.WithScheduleCacheSize(s.scheduleCacheSize),
	}
	if s.snapshotInterval > 0 {
		storeOpts = append(storeOpts, repository.WithSnapshotInterval(s.snapshotInterval))
	}
	s.store = repository.NewTreapStore(ctx, storeOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.cellQueue = cellqueue.NewInMemoryQueue(
		cellqueue.WithCapacity(s.queueSize),
		cellqueue.WithBufferSize(s.queueSize),
	)
	s.normalizer = &pipelineNormalizer{fallbackUnit: s.fallbackUnit}

	s.workerPool = workerpool.NewPool(s.workerCount, s.cellQueue, s.normalizer, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "normalization service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("fallbackUnit", s.fallbackUnit.String()),
		logger.Float64("goalDistanceKm", s.goalDistanceKm),
	)

	return nil
}

// Stop gracefully shuts down the pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping normalization service")

	// Close the queue first so workers drain and exit on channel close.
	if q, ok := s.cellQueue.(*cellqueue.InMemoryQueue); ok && !q.IsClosed() {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "normalization service stopped")
}

// LoadPlan decodes a plan document from r and rejects structurally empty
// documents.
func (s *Service) LoadPlan(ctx context.Context, r io.Reader) (*model.PlanDocument, error) {
	var doc model.PlanDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if len(doc.Weeks) == 0 {
		return nil, ErrEmptyPlan
	}
	return &doc, nil
}

// NormalizePlan enqueues every non-empty day cell of the plan for
// normalization and returns the number of cells enqueued. Day keys that do
// not name a weekday are logged and skipped.
func (s *Service) NormalizePlan(ctx context.Context, doc *model.PlanDocument) (int, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return 0, ErrNotStarted
	}

	enqueued := 0
	for _, week := range doc.Weeks {
		for dayKey, cell := range week.Days {
			if strings.TrimSpace(cell.Raw) == "" {
				continue
			}
			label, ok := locale.CanonicalTableLabel(dayKey)
			if !ok || label == types.Week {
				s.logger.Warn(ctx, "skipping unrecognized day column",
					logger.String("day", dayKey),
					logger.Int("week", week.WeekNumber),
				)
				continue
			}
			ok = s.cellQueue.Enqueue(ctx, workerpool.Cell{
				Week: week.WeekNumber,
				Day:  label,
				Raw:  cell.Raw,
			})
			if !ok {
				return enqueued, fmt.Errorf("%w: week %d %s", ErrQueueFull, week.WeekNumber, dayKey)
			}
			enqueued++
		}
	}

	metrics.UpdateQueueSize(s.cellQueue.Len(ctx))
	s.logger.Info(ctx, "plan cells enqueued", logger.Int("cells", enqueued))
	return enqueued, nil
}

// Drain blocks until the queue is empty and the store has stopped growing,
// or ctx is done. Cells rejected by the pipeline never reach the store, so
// drain completion is detected by stability rather than an exact count.
func (s *Service) Drain(ctx context.Context) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	stable := 0
	lastCount := -1
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrDrainAbort, ctx.Err())
		case <-time.After(drainPollInterval):
		}

		if s.cellQueue.Len(ctx) > 0 {
			stable = 0
			continue
		}
		count := s.store.Count(ctx)
		if count == lastCount {
			stable++
			if stable >= drainStableChecks {
				return nil
			}
		} else {
			stable = 0
			lastCount = count
		}
	}
}

// Schedule returns every normalized workout in calendar order.
func (s *Service) Schedule(ctx context.Context) ([]repository.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.All(ctx)
}

// Workout returns the normalized workout for one (week, day) slot.
func (s *Service) Workout(ctx context.Context, week int, day string) (model.NormalizedWorkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.NormalizedWorkout{}, ErrNotStarted
	}
	return s.store.Get(ctx, week, day)
}

// Position returns the 1-based calendar position of a slot.
func (s *Service) Position(ctx context.Context, week int, day string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return 0, ErrNotStarted
	}
	return s.store.Position(ctx, week, day)
}

// EstimateGoal deduplicates the given evidence and projects a goal time for
// the configured race distance. Returns nil when no usable evidence remains.
func (s *Service) EstimateGoal(ctx context.Context, evidence []model.PerformanceEvidence) *model.GoalTimeEstimate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil
	}

	unique := make([]model.PerformanceEvidence, 0, len(evidence))
	for _, e := range evidence {
		fp := dedupe.Fingerprint(e)
		if s.deduper.SeenAndRecord(ctx, fp) {
			metrics.RecordEvidenceDuplicate()
			s.logger.Debug(ctx, "duplicate evidence dropped",
				logger.String("fingerprint", fp),
				logger.String("source", e.Source.String()),
			)
			continue
		}
		metrics.RecordEvidenceAccepted()
		unique = append(unique, e)
	}

	return projection.EstimateGoalTime(s.goalDistanceKm, unique, time.Now().UTC())
}

// PaceProfile derives the per-bucket training paces implied by a goal time
// over the configured race distance.
func (s *Service) PaceProfile(goalTimeSec int) zones.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return zones.DeriveProfile(s.goalDistanceKm, float64(goalTimeSec), s.fallbackUnit)
}

// GoalDistanceKm returns the configured goal race distance.
func (s *Service) GoalDistanceKm() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goalDistanceKm
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.cellQueue.Len(ctx)
		workouts := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalWorkouts"] = workouts

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreWorkoutsTotal(workouts)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the evidence deduper.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
