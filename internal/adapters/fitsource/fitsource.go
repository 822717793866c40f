// Package fitsource reads performance evidence for goal projection out of
// .fit activity files.
package fitsource

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tormoder/fit"

	model "github.com/strideworks/stride/internal/domain/model"
	types "github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/pkg/logger"
)

const metersPerKm = 1000.0

// FromSession converts one decoded session into a performance observation.
// Non-running sessions and sessions with unusable distance or time are
// skipped.
func FromSession(s *fit.SessionMsg) (model.PerformanceEvidence, bool) {
	if s == nil || s.Sport != fit.SportRunning {
		return model.PerformanceEvidence{}, false
	}

	meters := s.GetTotalDistanceScaled()
	seconds := s.GetTotalTimerTimeScaled()
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters <= 0 {
		return model.PerformanceEvidence{}, false
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return model.PerformanceEvidence{}, false
	}

	e := model.PerformanceEvidence{
		Source:     types.SourceSynced,
		DistanceKm: meters / metersPerKm,
		TimeSec:    seconds,
	}
	if !s.StartTime.IsZero() {
		start := s.StartTime.UTC()
		e.Date = &start
	}
	return e, true
}

// LoadFile decodes one .fit file and returns the running sessions it holds.
func LoadFile(ctx context.Context, path string) ([]model.PerformanceEvidence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, err
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, err
	}

	var out []model.PerformanceEvidence
	for _, s := range activity.Sessions {
		if e, ok := FromSession(s); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// LoadDir reads every .fit file in dir. Files that fail to decode are
// logged and skipped so one corrupt download does not sink the batch.
func LoadDir(ctx context.Context, dir string) ([]model.PerformanceEvidence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	log := logger.Named("fitsource")
	var out []model.PerformanceEvidence
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".fit") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		evidence, err := LoadFile(ctx, path)
		if err != nil {
			log.Warn(ctx, "skipping unreadable activity file",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}
		out = append(out, evidence...)
	}
	return out, nil
}
