package testcorpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	service "github.com/strideworks/stride/internal/app"
	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	planFilePermission  = 0600
)

// Run executes the complete corpus verification: generate a synthetic plan,
// push it through an in-process pipeline, and check every stored workout
// against its expectation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting corpus verification run",
		logger.Int("weeks", config.NumWeeks),
		logger.Int("workers", config.Workers),
		logger.String("fallbackUnit", config.FallbackUnit),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Build and start an in-process pipeline
	unit, ok := types.ParseDistanceUnit(config.FallbackUnit)
	if !ok {
		return fmt.Errorf("unrecognized fallback unit %q", config.FallbackUnit)
	}
	svc := service.New(
		service.WithWorkerCount(config.Workers),
		service.WithFallbackUnit(unit),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("pipeline start failed: %w", err)
	}
	defer svc.Stop()

	// Step 2: Generate the synthetic plan
	doc, expectations, err := generatePlan(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("plan generation failed: %w", err)
	}

	// Step 3: Enqueue every cell
	enqueued, err := svc.NormalizePlan(ctx, doc)
	if err != nil {
		return fmt.Errorf("plan normalization failed: %w", err)
	}
	stats.CellsEnqueued = enqueued

	// Step 4: Wait for the pipeline to drain
	logger.Get().Info(ctx, "waiting for cells to be normalized")
	drainCtx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()
	if err := svc.Drain(drainCtx); err != nil {
		return fmt.Errorf("pipeline drain failed: %w", err)
	}

	// Step 5: Verify results
	if err := verifyResults(ctx, svc, expectations, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Verify goal projection
	if err := verifyProjection(ctx, svc, stats); err != nil {
		return fmt.Errorf("projection verification failed: %w", err)
	}

	// Step 7: Save the generated plan to file
	if err := savePlanToFile(ctx, config, doc); err != nil {
		logger.Get().Warn(ctx, "failed to save plan to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}

	logger.Get().Info(ctx, "corpus verification completed successfully")
	return nil
}

// savePlanToFile saves the generated plan document to a JSON file.
func savePlanToFile(ctx context.Context, config *Config, doc *model.PlanDocument) error {
	if doc == nil || len(doc.Weeks) == 0 {
		return fmt.Errorf("no plan to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_plan_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), planFilePermission); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	logger.Get().Info(ctx, "plan saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var passRate, cellsPerSecond float64

	if stats.ChecksRun > 0 {
		passRate = float64(stats.ChecksRun-stats.ChecksFailed) / float64(stats.ChecksRun) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		cellsPerSecond = float64(stats.CellsEnqueued) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("cellsGenerated", stats.CellsGenerated),
		logger.Int("cellsEnqueued", stats.CellsEnqueued),
		logger.Int("cellsNormalized", stats.CellsNormalized),
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate),
		logger.Float64("cellsPerSecond", cellsPerSecond))
}
