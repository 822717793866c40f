package intensity

import (
	"strconv"
	"strings"

	"github.com/strideworks/stride/internal/domain/model"
	"github.com/strideworks/stride/internal/domain/types"
)

// TargetInputs carries the raw fields of one workout into the combined
// structured parse.
type TargetInputs struct {
	PaceText     string
	EffortText   string
	FallbackUnit *types.DistanceUnit
}

// ParsePaceTarget parses every concrete pace occurrence in text plus the
// bucket keyword scan into one structured record. Returns nil for empty
// input; extraction misses are expressed through ModeUnknown, not nil.
func ParsePaceTarget(text string, fallbackUnit *types.DistanceUnit) *model.PaceTarget {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	target := &model.PaceTarget{Mode: types.ModeUnknown}
	if bucket, ok := matchBucket(text); ok {
		b := bucket
		target.Bucket = &b
	}

	matches := paceExpr.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		if target.Bucket != nil {
			target.Mode = types.ModeSymbolic
		}
		target.Unit = fallbackUnit
		return target
	}

	var explicitUnit *types.DistanceUnit
	minSec, maxSec := 0, 0
	ranged := false
	for i, m := range matches {
		lo := paceSeconds(m[1], m[2])
		hi := lo
		if m[3] != "" {
			hi = paceSeconds(m[3], m[4])
			if hi < lo {
				lo, hi = hi, lo
			}
			ranged = ranged || hi != lo
		}
		if i == 0 || lo < minSec {
			minSec = lo
		}
		if i == 0 || hi > maxSec {
			maxSec = hi
		}
		if explicitUnit == nil && m[5] != "" {
			if u, ok := types.ParseDistanceUnit(m[5]); ok {
				unit := u
				explicitUnit = &unit
			}
		}
	}

	switch {
	case len(matches) >= 2:
		target.Mode = types.ModeHybrid
	case ranged && minSec < maxSec:
		target.Mode = types.ModeRange
	default:
		target.Mode = types.ModeNumeric
		maxSec = minSec
	}
	target.MinSec = &minSec
	target.MaxSec = &maxSec

	if explicitUnit != nil {
		target.Unit = explicitUnit
	} else {
		target.Unit = fallbackUnit
	}
	return target
}

func paceSeconds(minutes, seconds string) int {
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	return m*60 + s
}

// ParseEffortTarget parses text into a structured effort record using the
// same pattern priority as ExtractEffortTarget. Non-empty text always
// yields a record; EffortText is the catch-all kind.
func ParseEffortTarget(text string) *model.EffortTarget {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if m := rpeExpr.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi := lo
		if m[2] != "" {
			hi, _ = strconv.Atoi(m[2])
			if hi < lo {
				lo, hi = hi, lo
			}
		}
		return &model.EffortTarget{Kind: types.EffortRPE, RPEMin: &lo, RPEMax: &hi}
	}
	if m := bareScale.FindStringSubmatch(text); m != nil {
		v, _ := strconv.Atoi(m[1])
		return &model.EffortTarget{Kind: types.EffortRPE, RPEMin: &v, RPEMax: &v}
	}
	if m := hrZoneExpr.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		zone, _ := strconv.Atoi(raw)
		return &model.EffortTarget{Kind: types.EffortHRZone, Zone: &zone}
	}
	if m := bpmRangeExpr.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return &model.EffortTarget{Kind: types.EffortHRBPM, BPMMin: &lo, BPMMax: &hi}
	}
	if m := bpmExpr.FindStringSubmatch(text); m != nil {
		v, _ := strconv.Atoi(m[1])
		return &model.EffortTarget{Kind: types.EffortHRBPM, BPMMin: &v, BPMMax: &v}
	}
	return &model.EffortTarget{Kind: types.EffortText}
}

// DeriveIntensityTargets runs both structured parsers and flattens their
// results. A missing pace target never suppresses a present effort target
// and vice versa.
func DeriveIntensityTargets(in TargetInputs) model.IntensityTargets {
	return model.IntensityTargets{
		Pace:   ParsePaceTarget(in.PaceText, in.FallbackUnit),
		Effort: ParseEffortTarget(in.EffortText),
	}
}

// ClassifyRunBucket classifies a run activity into a pace bucket from its
// subtype, title, and raw text. Rest/off days are not pace-bearing and
// return ok=false. Runs with no keyword hit default to Easy; this is the
// only place in the package with a non-none default.
func ClassifyRunBucket(subtype, title, rawText string, isRun bool) (types.PaceBucket, bool) {
	text := strings.ToLower(subtype + " " + title + " " + rawText)
	if restOrOff.MatchString(text) {
		return 0, false
	}
	if bucket, ok := matchBucket(text); ok {
		return bucket, true
	}
	if isRun {
		return types.Easy, true
	}
	return 0, false
}
