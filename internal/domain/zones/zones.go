// Package zones derives a full training pace-zone profile from a single
// race goal.
package zones

import (
	"github.com/strideworks/stride/internal/domain/types"
	"github.com/strideworks/stride/internal/domain/units"
)

// Defensive floors for degenerate goals. Inputs below these are clamped,
// not rejected: a broken goal still yields a usable profile.
const (
	minRaceDistanceKm = 0.1
	minGoalTimeSec    = 60
)

// bucketMultipliers scales the goal race pace into each training zone.
// Race pace is the pivot at 1.0; slower buckets carry larger multipliers.
// These are fixed design constants: stored plans were rendered with them,
// so output compatibility requires reproducing them exactly.
var bucketMultipliers = map[types.PaceBucket]float64{
	types.Recovery:  1.22,
	types.Easy:      1.14,
	types.Long:      1.09,
	types.Race:      1.00,
	types.Tempo:     0.96,
	types.Threshold: 0.93,
	types.Interval:  0.87,
}

// Profile holds the formatted pace for every bucket plus the unit they are
// expressed in. Recomputed whole whenever the goal changes.
type Profile struct {
	Unit  types.DistanceUnit
	Paces map[types.PaceBucket]string
}

// Multiplier returns the fixed zone multiplier for a bucket.
func Multiplier(bucket types.PaceBucket) float64 {
	if m, ok := bucketMultipliers[bucket]; ok {
		return m
	}
	return 1.0
}

// DeriveProfile computes the seven-zone pace profile for a race goal.
// raceDistanceKm and goalTimeSec are clamped to their defensive floors.
func DeriveProfile(raceDistanceKm float64, goalTimeSec float64, unit types.DistanceUnit) Profile {
	if raceDistanceKm < minRaceDistanceKm {
		raceDistanceKm = minRaceDistanceKm
	}
	if goalTimeSec < minGoalTimeSec {
		goalTimeSec = minGoalTimeSec
	}

	basePerKm := goalTimeSec / raceDistanceKm
	basePerUnit := basePerKm
	if unit == types.Miles {
		basePerUnit = basePerKm * units.KmPerMile
	}

	paces := make(map[types.PaceBucket]string, len(bucketMultipliers))
	for _, bucket := range types.Buckets() {
		paces[bucket] = units.FormatPace(basePerUnit*Multiplier(bucket), unit)
	}
	return Profile{Unit: unit, Paces: paces}
}

// DeriveSeconds mirrors DeriveProfile but returns unformatted
// seconds-per-unit values, which callers use for ordering and comparisons.
func DeriveSeconds(raceDistanceKm float64, goalTimeSec float64, unit types.DistanceUnit) map[types.PaceBucket]float64 {
	if raceDistanceKm < minRaceDistanceKm {
		raceDistanceKm = minRaceDistanceKm
	}
	if goalTimeSec < minGoalTimeSec {
		goalTimeSec = minGoalTimeSec
	}

	basePerUnit := goalTimeSec / raceDistanceKm
	if unit == types.Miles {
		basePerUnit *= units.KmPerMile
	}

	out := make(map[types.PaceBucket]float64, len(bucketMultipliers))
	for _, bucket := range types.Buckets() {
		out[bucket] = basePerUnit * Multiplier(bucket)
	}
	return out
}
