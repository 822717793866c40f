// Package units converts distances and paces between miles and kilometres
// and formats them for display.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/strideworks/stride/internal/domain/types"
)

// KmPerMile is the exact statute-mile conversion factor. The snap rounding
// thresholds below are tuned to this factor; changing one invalidates the
// other.
const KmPerMile = 1.609344

// ConvertDistance converts a distance value between units with no rounding.
func ConvertDistance(value float64, from, to types.DistanceUnit) float64 {
	if from == to {
		return value
	}
	if from == types.Miles && to == types.KM {
		return value * KmPerMile
	}
	return value / KmPerMile
}

// snap rounds a converted value to 2 decimals, then corrects the recurring
// conversion artifacts: a .99 hundredths pair rounds up to the next whole
// number (4.99 -> 5.0) and a .49 pair rounds to the nearest half
// (3.49 -> 3.5). Other values keep their 2-decimal precision.
func snap(value float64) float64 {
	cents := math.Round(value * 100)
	rounded := cents / 100
	switch int(cents) % 100 {
	case 99:
		return math.Floor(rounded) + 1
	case 49:
		return math.Floor(rounded) + 0.5
	default:
		return rounded
	}
}

// ConvertDistanceForDisplay converts value from sourceUnit to viewerUnit and
// applies the snap rule. An unparseable sourceUnit falls back to viewerUnit
// (a same-unit value just gets 2-decimal rounding). Null, non-finite, and
// non-positive values are rejected, never coerced to zero.
func ConvertDistanceForDisplay(value float64, sourceUnit string, viewerUnit types.DistanceUnit) (float64, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}
	source := viewerUnit
	if u, ok := types.ParseDistanceUnit(sourceUnit); ok {
		source = u
	}
	if source == viewerUnit {
		return math.Round(value*100) / 100, true
	}
	return snap(ConvertDistance(value, source, viewerUnit)), true
}

// pacePattern accepts "mm:ss" optionally followed by "/unit" with the unit
// tokens seen in stored plans.
var pacePattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})[:.](\d{2})\s*(?:/\s*(miles|mile|mi|km|k))?\s*$`)

// ConvertPaceForDisplay converts a pace string to the target unit and
// reformats it as "m:ss /unit". A bare "mm:ss" needs sourceHint to resolve
// its unit. Anything unparseable, and any pace whose unit cannot be
// resolved, is returned unchanged: this function never guesses a unit.
func ConvertPaceForDisplay(rawPace string, targetUnit types.DistanceUnit, sourceHint *types.DistanceUnit) string {
	m := pacePattern.FindStringSubmatch(rawPace)
	if m == nil {
		return rawPace
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return rawPace
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil || seconds >= 60 {
		return rawPace
	}

	var source types.DistanceUnit
	switch {
	case m[3] != "":
		u, ok := types.ParseDistanceUnit(m[3])
		if !ok {
			return rawPace
		}
		source = u
	case sourceHint != nil:
		source = *sourceHint
	default:
		return rawPace
	}

	secPerSource := float64(minutes*60 + seconds)
	// Pace scales inversely to distance: km->mi multiplies seconds per
	// unit, mi->km divides.
	secPerTarget := secPerSource
	if source == types.KM && targetUnit == types.Miles {
		secPerTarget = secPerSource * KmPerMile
	} else if source == types.Miles && targetUnit == types.KM {
		secPerTarget = secPerSource / KmPerMile
	}
	return FormatPace(secPerTarget, targetUnit)
}

// FormatPace renders seconds-per-unit as "m:ss /unit".
func FormatPace(secondsPerUnit float64, unit types.DistanceUnit) string {
	total := int(math.Round(secondsPerUnit))
	return fmt.Sprintf("%d:%02d /%s", total/60, total%60, unit)
}
