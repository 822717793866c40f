package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/strideworks/stride/internal/adapters/fitsource"
	app "github.com/strideworks/stride/internal/app"
	"github.com/strideworks/stride/internal/config"
	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/projection"
	"github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/internal/domain/zones"
	"github.com/strideworks/stride/pkg/logger"
	"github.com/strideworks/stride/pkg/metrics"
)

// Timing constants.
const (
	drainTimeout           = 5 * time.Minute
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
	outputFilePermission   = 0600
)

// scheduleRow is one normalized workout with its calendar position, as
// written to the output document.
type scheduleRow struct {
	Position int                     `json:"position"`
	Week     int                     `json:"week"`
	Day      string                  `json:"day"`
	Workout  model.NormalizedWorkout `json:"workout"`
}

// outputDocument is the full engine output: the normalized schedule plus
// the optional goal projection.
type outputDocument struct {
	ProgramName  string                  `json:"program_name"`
	FallbackUnit string                  `json:"fallback_unit"`
	Schedule     []scheduleRow           `json:"schedule"`
	GoalEstimate *model.GoalTimeEstimate `json:"goal_estimate,omitempty"`
	GoalTimeHMS  string                  `json:"goal_time_hms,omitempty"`
	PaceProfile  map[string]string       `json:"pace_profile,omitempty"`
}

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Validation in config.Load guarantees the unit parses.
	fallbackUnit, _ := types.ParseDistanceUnit(cfg.FallbackUnit)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.CellQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithScheduleCacheSize(cfg.ScheduleCacheSize),
		app.WithSnapshotInterval(time.Duration(cfg.SnapshotIntervalMS)*time.Millisecond),
		app.WithFallbackUnit(fallbackUnit),
		app.WithGoalDistanceKm(cfg.GoalDistanceKm),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// Load the plan document
	doc, err := loadPlan(ctx, svc, cfg.PlanPath)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load plan", logger.Error(err))
		return
	}

	// Normalize every cell and wait for the pipeline to drain
	enqueued, err := svc.NormalizePlan(ctx, doc)
	if err != nil {
		loggerInstance.Error(ctx, "failed to normalize plan", logger.Error(err))
		return
	}
	loggerInstance.Info(ctx, "normalizing plan",
		logger.String("program", doc.ProgramName),
		logger.Int("cells", enqueued),
	)

	drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	if err := svc.Drain(drainCtx); err != nil {
		loggerInstance.Error(ctx, "pipeline drain failed", logger.Error(err))
		return
	}

	// Gather performance evidence and project a goal time
	evidence := gatherEvidence(ctx, cfg)
	out := buildOutput(ctx, svc, doc, cfg.FallbackUnit, evidence)

	// Write the output document
	if err := writeOutput(out, cfg.OutputPath); err != nil {
		loggerInstance.Error(ctx, "failed to write output", logger.Error(err))
		return
	}

	logMetricsSummary(ctx, loggerInstance)
	loggerInstance.Info(ctx, "normalization complete",
		logger.Int("workouts", len(out.Schedule)),
		logger.String("output", outputName(cfg.OutputPath)),
	)
}

// loadPlan reads the plan document from path, or stdin when path is empty.
func loadPlan(ctx context.Context, svc *app.Service, path string) (*model.PlanDocument, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open plan: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return svc.LoadPlan(ctx, r)
}

// gatherEvidence collects performance evidence from the manual evidence
// file and the .fit activity directory. Either source may be absent.
func gatherEvidence(ctx context.Context, cfg *config.Config) []model.PerformanceEvidence {
	log := logger.Get()
	var evidence []model.PerformanceEvidence

	if cfg.EvidencePath != "" {
		manual, err := loadManualEvidence(cfg.EvidencePath)
		if err != nil {
			log.Warn(ctx, "failed to load manual evidence", logger.String("path", cfg.EvidencePath), logger.Error(err))
		} else {
			evidence = append(evidence, manual...)
		}
	}

	if cfg.FitDir != "" {
		synced, err := fitsource.LoadDir(ctx, cfg.FitDir)
		if err != nil {
			log.Warn(ctx, "failed to load activity files", logger.String("dir", cfg.FitDir), logger.Error(err))
		} else {
			evidence = append(evidence, synced...)
		}
	}

	return evidence
}

// loadManualEvidence reads a JSON array of performance observations.
func loadManualEvidence(path string) ([]model.PerformanceEvidence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var evidence []model.PerformanceEvidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		return nil, fmt.Errorf("parse evidence: %w", err)
	}
	return evidence, nil
}

// buildOutput assembles the output document from the drained schedule and
// the optional goal projection.
func buildOutput(ctx context.Context, svc *app.Service, doc *model.PlanDocument, fallbackUnit string, evidence []model.PerformanceEvidence) *outputDocument {
	out := &outputDocument{
		ProgramName:  doc.ProgramName,
		FallbackUnit: fallbackUnit,
		Schedule:     []scheduleRow{},
	}

	entries, err := svc.Schedule(ctx)
	if err == nil {
		for _, e := range entries {
			out.Schedule = append(out.Schedule, scheduleRow{
				Position: e.Position,
				Week:     e.Week,
				Day:      e.Day,
				Workout:  e.Workout,
			})
		}
	}

	if len(evidence) > 0 {
		if est := svc.EstimateGoal(ctx, evidence); est != nil {
			out.GoalEstimate = est
			out.GoalTimeHMS = projection.FormatTimeHMS(est.GoalTimeSec)
			out.PaceProfile = profilePaces(svc.PaceProfile(est.GoalTimeSec))
		}
	}

	return out
}

// profilePaces flattens a zone profile into bucket-name keyed pace strings.
func profilePaces(profile zones.Profile) map[string]string {
	out := make(map[string]string, len(profile.Paces))
	for bucket, pace := range profile.Paces {
		out[bucket.String()] = pace
	}
	return out
}

// writeOutput writes the document as indented JSON to path, or stdout when
// path is empty.
func writeOutput(out *outputDocument, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, outputFilePermission)
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// logMetricsSummary logs how many metric families the run produced.
func logMetricsSummary(ctx context.Context, log logger.Logger) {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		log.Warn(ctx, "failed to gather metrics", logger.Error(err))
		return
	}
	log.Info(ctx, "run metrics gathered", logger.Int("families", len(families)))
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}

	if workouts, ok := stats["totalWorkouts"].(int); ok {
		metrics.UpdateStoreWorkoutsTotal(workouts)
	}

	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
