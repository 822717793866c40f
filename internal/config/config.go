// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PlanPath points at the plan JSON produced by the external PDF parser.
	PlanPath string `koanf:"plan_path"`

	// OutputPath is where the normalized schedule JSON is written.
	// Empty means stdout.
	OutputPath string `koanf:"output_path"`

	// FitDir is an optional directory of .fit activity files used as
	// performance evidence for goal projection.
	FitDir string `koanf:"fit_dir"`

	// EvidencePath is an optional JSON file of manually recorded
	// performance evidence.
	EvidencePath string `koanf:"evidence_path"`

	// FallbackUnit is assumed for pace expressions with no explicit unit:
	// "km" or "miles".
	FallbackUnit string `koanf:"fallback_unit"`

	// GoalDistanceKm is the target race distance for goal-time projection.
	GoalDistanceKm float64 `koanf:"goal_distance_km"`

	// CellQueueSize bounds the in-memory cell queue.
	CellQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of normalization workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the evidence deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ScheduleCacheSize caps the leading entries kept in store snapshots.
	ScheduleCacheSize int `koanf:"schedule_cache_size"`

	// SnapshotIntervalMS sets the store snapshot publish interval.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		FallbackUnit:       "km",
		GoalDistanceKm:     10,
		CellQueueSize:      100_000,
		WorkerCount:        runtime.NumCPU() * 4,
		DedupeSize:         50_000,
		ScheduleCacheSize:  500,
		SnapshotIntervalMS: 1000,
	}
}
