// Package projection estimates goal race times from historical performance
// evidence using the Riegel endurance scaling law.
package projection

import (
	"fmt"
	"math"
	"time"

	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/types"
)

// Riegel exponent and the weighting/confidence constants. All fixed design
// values: projections stored from earlier runs depend on them.
const (
	riegelExponent = 1.06

	minDistanceKm = 0.1
	minTimeSec    = 60

	// Recency weight steps, by age of the evidence.
	recencyFullDays = 90
	recency180Days  = 180
	recency365Days  = 365
	recency730Days  = 730

	recencyFull   = 1.0
	recencyHalfYr = 0.9
	recencyYear   = 0.8
	recencyTwoYrs = 0.65
	recencyOlder  = 0.5

	// Relevance penalizes projecting across very different distances.
	relevanceLogDivisor = 2.5
	relevanceFloor      = 0.35

	// Confidence tiers.
	highEvidenceCount = 3
	highSpreadSec     = 300
	mediumEvidence    = 2
	mediumSpreadSec   = 600
)

// ProjectTime applies the Riegel scaling law to project a known performance
// to a target distance. Inputs are clamped to defensive floors.
func ProjectTime(sourceDistanceKm, sourceTimeSec, targetDistanceKm float64) float64 {
	if sourceDistanceKm < minDistanceKm {
		sourceDistanceKm = minDistanceKm
	}
	if sourceTimeSec < minTimeSec {
		sourceTimeSec = minTimeSec
	}
	if targetDistanceKm < minDistanceKm {
		targetDistanceKm = minDistanceKm
	}
	return sourceTimeSec * math.Pow(targetDistanceKm/sourceDistanceKm, riegelExponent)
}

// recencyWeight decays stepwise with the age of the observation. Evidence
// without a date counts as fresh.
func recencyWeight(date *time.Time, now time.Time) float64 {
	if date == nil {
		return recencyFull
	}
	age := now.Sub(*date).Hours() / 24
	switch {
	case age <= recencyFullDays:
		return recencyFull
	case age <= recency180Days:
		return recencyHalfYr
	case age <= recency365Days:
		return recencyYear
	case age <= recency730Days:
		return recencyTwoYrs
	default:
		return recencyOlder
	}
}

// relevanceWeight penalizes evidence from distances far from the target,
// clamped so even a 5k still says something about a marathon.
func relevanceWeight(targetKm, sourceKm float64) float64 {
	w := 1 - math.Abs(math.Log(targetKm/sourceKm))/relevanceLogDivisor
	return math.Min(1, math.Max(relevanceFloor, w))
}

// usable filters out evidence the projector cannot trust: non-finite
// values, non-positive distances, and sub-minute times.
func usable(e model.PerformanceEvidence) bool {
	if math.IsNaN(e.DistanceKm) || math.IsInf(e.DistanceKm, 0) ||
		math.IsNaN(e.TimeSec) || math.IsInf(e.TimeSec, 0) {
		return false
	}
	return e.DistanceKm > 0 && e.TimeSec >= minTimeSec
}

// EstimateGoalTime projects every usable evidence entry to the target
// distance and combines them into a weighted mean with a confidence tier.
// Returns nil when no evidence survives filtering. The estimate is rebuilt
// in full on each call; nothing is cached across calls.
func EstimateGoalTime(targetDistanceKm float64, evidence []model.PerformanceEvidence, now time.Time) *model.GoalTimeEstimate {
	var (
		weightedSum float64
		totalWeight float64
		minProj     float64
		maxProj     float64
		used        int
	)

	for _, e := range evidence {
		if !usable(e) {
			continue
		}
		projected := ProjectTime(e.DistanceKm, e.TimeSec, targetDistanceKm)
		weight := recencyWeight(e.Date, now) * relevanceWeight(targetDistanceKm, e.DistanceKm)

		if used == 0 || projected < minProj {
			minProj = projected
		}
		if used == 0 || projected > maxProj {
			maxProj = projected
		}
		weightedSum += projected * weight
		totalWeight += weight
		used++
	}

	if used == 0 || totalWeight <= 0 {
		return nil
	}

	spread := 0
	if used > 1 {
		spread = int(math.Round(maxProj - minProj))
	}

	confidence := types.ConfidenceLow
	switch {
	case used >= highEvidenceCount && spread <= highSpreadSec:
		confidence = types.ConfidenceHigh
	case used >= mediumEvidence && spread <= mediumSpreadSec:
		confidence = types.ConfidenceMedium
	}

	return &model.GoalTimeEstimate{
		GoalTimeSec:  int(math.Round(weightedSum / totalWeight)),
		Confidence:   confidence,
		EvidenceUsed: used,
		SpreadSec:    spread,
	}
}

// FormatTimeHMS renders total seconds as "h:mm:ss", dropping the hour part
// for sub-hour times.
func FormatTimeHMS(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseTimeParts converts hour/minute/second parts to total seconds. Parts
// out of range are rejected, not carried: 90 seconds is an input error, not
// a minute and a half.
func ParseTimeParts(hours, minutes, seconds int) (int, bool) {
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, false
	}
	if minutes >= 60 || seconds >= 60 {
		return 0, false
	}
	return hours*3600 + minutes*60 + seconds, true
}
