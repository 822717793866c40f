// Package planparse turns raw plan cells into cleaned text, classified
// segments and extracted distance/duration metrics.
package planparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	model "github.com/strideworks/stride/internal/domain/model"
)

// TypeUnknown is the classification for segments no rule matches.
const TypeUnknown = "unknown"

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	footnoteExpr   = regexp.MustCompile(`([A-Za-z])\d+`)
	splitMilesExpr = regexp.MustCompile(`(\d)\s*iles\b`)
	starNoteExpr   = regexp.MustCompile(`★\s*\d+\s*R\s+`)
	segmentSepExpr = regexp.MustCompile(`\s*\+\s*`)

	distanceExpr = regexp.MustCompile(
		`(\d+(?:\.\d+)?)\s*(miles?|mi|kms?|kilometers?|kilometres?|meters?|metres?|m)\b`)
	distanceRangeExpr = regexp.MustCompile(
		`(\d+(?:\.\d+)?)\s*[\x{2013}-]\s*(\d+(?:\.\d+)?)\s*(miles?|mi|kms?|kilometers?|kilometres?|meters?|metres?|m)\b`)
	minutesExpr      = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|m)\b`)
	minutesRangeExpr = regexp.MustCompile(`(\d+)\s*[\x{2013}-]\s*(\d+)\s*(?:minutes?|mins?|m\b)`)

	// Interval context that tips a short bare "m" toward meters.
	meterContextExpr = regexp.MustCompile(`(?i)\bx\b|\breps?\b|\bstrides?\b|\binterval\b`)
)

// segmentRule maps one workout type to the pattern that detects it. Rules
// fire in order; the first match wins.
type segmentRule struct {
	workoutType string
	pattern     *regexp.Regexp
}

var segmentRules = []segmentRule{
	{"strength", regexp.MustCompile(`(?i)^strength\s*\d+`)},
	{"rest", regexp.MustCompile(`(?i)\brest day\b`)},
	{"cross-training", regexp.MustCompile(`(?i)cross training`)},
	{"training-race", regexp.MustCompile(`(?i)training race`)},
	{"race", regexp.MustCompile(`(?i)\brace\b`)},
	{"incline-treadmill", regexp.MustCompile(`(?i)incline treadmill`)},
	{"hill-pyramid", regexp.MustCompile(`(?i)hill pyramid`)},
	{"hills", regexp.MustCompile(`(?i)\bhills\b`)},
	{"tempo", regexp.MustCompile(`(?i)tempo`)},
	{"progression", regexp.MustCompile(`(?i)progres`)},
	{"recovery", regexp.MustCompile(`(?i)recovery`)},
	{"trail-run", regexp.MustCompile(`(?i)\btrail\b`)},
	{"fast-finish", regexp.MustCompile(`(?i)fast finish`)},
	{"lrl", regexp.MustCompile(`(?i)\bLRL\b`)},
	{"hike", regexp.MustCompile(`(?i)\bhike\b`)},
	{"easy-run", regexp.MustCompile(`(?i)\beasy\b`)},
}

// typePriority ranks workout types when a cell mixes several segment kinds.
// Earlier entries dominate the cell-level guess.
var typePriority = []string{
	"rest", "race", "training-race", "strength", "tempo", "hills",
	"hill-pyramid", "incline-treadmill", "progression", "trail-run",
	"recovery", "easy-run", "cross-training", "hike", "lrl", "fast-finish",
	TypeUnknown,
}

// normalizeText collapses runs of whitespace and trims the result.
func normalizeText(text string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}

// CleanCellText repairs common table-extraction artifacts: embedded
// newlines, footnote digits glued to words ("miles2"), split words
// ("4 iles", "est;") and stray footnote remnants. It is idempotent.
func CleanCellText(text string) string {
	t := strings.ReplaceAll(text, "\n", " ")
	t = footnoteExpr.ReplaceAllString(t, "$1")
	t = normalizeText(t)
	if t == "" {
		return t
	}
	if strings.HasPrefix(strings.ToLower(t), "est;") {
		t = "Rest;" + t[4:]
	}
	t = splitMilesExpr.ReplaceAllString(t, "$1 miles")
	t = starNoteExpr.ReplaceAllString(t, "★ ")
	return t
}

// SplitSegments breaks a cleaned cell into its "+"-separated pieces,
// dropping empty ones.
func SplitSegments(text string) []string {
	var out []string
	for _, s := range segmentSepExpr.Split(text, -1) {
		if s = normalizeText(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ClassifySegment returns the workout type of one segment, or TypeUnknown
// when no rule matches.
func ClassifySegment(segment string) string {
	for _, r := range segmentRules {
		if r.pattern.MatchString(segment) {
			return r.workoutType
		}
	}
	return TypeUnknown
}

// resolveUnit canonicalizes a matched distance unit. A short bare "m" is
// ambiguous between meters and minutes; values of 100 or more are always
// meters, smaller ones count as meters only in interval context and are
// otherwise left for the duration pass.
func resolveUnit(raw string, value float64, fullText string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mile", "miles", "mi":
		return "miles"
	case "km", "kms", "kilometer", "kilometers", "kilometre", "kilometres":
		return "km"
	case "meter", "meters", "metre", "metres":
		return "m"
	case "m":
		if value >= 100 {
			return "m"
		}
		if meterContextExpr.MatchString(fullText) {
			return "m"
		}
	}
	return ""
}

func roundKm(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// ExtractMetrics pulls the distance and duration figures out of one text.
// Distance ranges beat single values; the matched distance text is removed
// before the duration pass so "5 miles" never doubles as "5 minutes".
func ExtractMetrics(text string) model.WorkoutMetrics {
	t := strings.ToLower(text)
	var m model.WorkoutMetrics

	remainder := t
	if rm := distanceRangeExpr.FindStringSubmatch(t); rm != nil {
		lo, _ := strconv.ParseFloat(rm[1], 64)
		hi, _ := strconv.ParseFloat(rm[2], 64)
		if unit := resolveUnit(rm[3], math.Max(lo, hi), t); unit != "" {
			m.DistanceValue = floatPtr(hi)
			m.DistanceUnit = unit
			m.DistanceRange = []float64{lo, hi}
			switch unit {
			case "km":
				m.DistanceKm = floatPtr(hi)
				m.DistanceKmRng = []float64{lo, hi}
			case "m":
				m.Meters = floatPtr(hi)
				m.DistanceKm = floatPtr(roundKm(hi / 1000))
				m.DistanceKmRng = []float64{roundKm(lo / 1000), roundKm(hi / 1000)}
			}
			remainder = strings.Replace(t, rm[0], "", 1)
		}
	} else if sm := distanceExpr.FindStringSubmatch(t); sm != nil {
		value, _ := strconv.ParseFloat(sm[1], 64)
		if unit := resolveUnit(sm[2], value, t); unit != "" {
			m.DistanceValue = floatPtr(value)
			m.DistanceUnit = unit
			switch unit {
			case "km":
				m.DistanceKm = floatPtr(value)
			case "m":
				m.Meters = floatPtr(value)
				m.DistanceKm = floatPtr(roundKm(value / 1000))
			}
			remainder = strings.Replace(t, sm[0], "", 1)
		}
	}

	if rm := minutesRangeExpr.FindStringSubmatch(remainder); rm != nil {
		lo, _ := strconv.Atoi(rm[1])
		hi, _ := strconv.Atoi(rm[2])
		m.MinutesRange = []int{lo, hi}
	} else if mn := minutesExpr.FindStringSubmatch(remainder); mn != nil {
		v, _ := strconv.Atoi(mn[1])
		m.Minutes = intPtr(v)
	}

	return m
}

// ParsedCell is the full parse of one plan cell.
type ParsedCell struct {
	Raw       string
	Segments  []model.Segment
	TypeGuess string
	Metrics   model.WorkoutMetrics
}

// ParseCell cleans a raw cell, splits and classifies its segments and
// extracts metrics for the cell and each segment. The cell-level type
// guess follows the fixed priority ranking across segment types.
func ParseCell(text string) ParsedCell {
	raw := CleanCellText(text)
	if raw == "" {
		return ParsedCell{TypeGuess: TypeUnknown}
	}

	found := map[string]bool{}
	var segments []model.Segment
	for _, s := range SplitSegments(raw) {
		t := ClassifySegment(s)
		found[t] = true
		segments = append(segments, model.Segment{
			Text:    s,
			Type:    t,
			Metrics: ExtractMetrics(s),
		})
	}

	guess := TypeUnknown
	for _, t := range typePriority {
		if found[t] {
			guess = t
			break
		}
	}

	return ParsedCell{
		Raw:       raw,
		Segments:  segments,
		TypeGuess: guess,
		Metrics:   ExtractMetrics(raw),
	}
}
