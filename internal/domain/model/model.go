// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/strideworks/stride/internal/domain/types"
)

// PlanCell is one raw day cell as produced by the external plan parser.
type PlanCell struct {
	Raw string `json:"raw"`
}

// PlanWeek is one training week keyed by lower-case day name.
type PlanWeek struct {
	WeekNumber int                 `json:"week_number"`
	Days       map[string]PlanCell `json:"days"`
}

// PlanDocument mirrors the JSON handed over by the external PDF/LLM parser.
// The engine only reads it; it never writes the source document back.
type PlanDocument struct {
	SourcePDF   string            `json:"source_pdf,omitempty"`
	ProgramName string            `json:"program_name"`
	GeneratedAt time.Time         `json:"generated_at,omitempty"`
	Weeks       []PlanWeek        `json:"weeks"`
	Glossary    map[string]string `json:"glossary,omitempty"`
}

// DayCell is the unit of work flowing through the normalization pipeline.
type DayCell struct {
	Week int
	Day  types.TableLabel
	Raw  string
}

// PaceTarget is the structured form of a pace expression found in free text.
// MinSec/MaxSec are seconds per unit distance. Numeric targets have equal
// bounds; symbolic and unknown targets carry none.
type PaceTarget struct {
	Mode   types.TargetMode    `json:"mode"`
	Bucket *types.PaceBucket   `json:"bucket,omitempty"`
	MinSec *int                `json:"min_sec,omitempty"`
	MaxSec *int                `json:"max_sec,omitempty"`
	Unit   *types.DistanceUnit `json:"unit,omitempty"`
}

// EffortTarget is the structured form of an effort expression. Only the
// fields matching Kind are populated.
type EffortTarget struct {
	Kind   types.EffortKind `json:"kind"`
	RPEMin *int             `json:"rpe_min,omitempty"`
	RPEMax *int             `json:"rpe_max,omitempty"`
	Zone   *int             `json:"zone,omitempty"`
	BPMMin *int             `json:"bpm_min,omitempty"`
	BPMMax *int             `json:"bpm_max,omitempty"`
}

// IntensityTargets bundles the structured pace and effort parses of one
// text field. Either side may be nil without affecting the other.
type IntensityTargets struct {
	Pace   *PaceTarget   `json:"pace,omitempty"`
	Effort *EffortTarget `json:"effort,omitempty"`
}

// Segment is one "+"-separated piece of a plan cell with its classified type.
type Segment struct {
	Text    string         `json:"text"`
	Type    string         `json:"type"`
	Metrics WorkoutMetrics `json:"metrics"`
}

// WorkoutMetrics carries the distance and duration figures extracted from a
// cell or segment. Ranges hold [low, high]; meters are mirrored into km.
type WorkoutMetrics struct {
	DistanceValue *float64  `json:"distance_value,omitempty"`
	DistanceUnit  string    `json:"distance_unit,omitempty"`
	DistanceRange []float64 `json:"distance_range,omitempty"`
	DistanceKm    *float64  `json:"distance_km,omitempty"`
	DistanceKmRng []float64 `json:"distance_km_range,omitempty"`
	Meters        *float64  `json:"distance_meters,omitempty"`
	Minutes       *int      `json:"duration_minutes,omitempty"`
	MinutesRange  []int     `json:"duration_minutes_range,omitempty"`
}

// NormalizedWorkout is the pipeline output for one day cell.
type NormalizedWorkout struct {
	ID            string           `json:"id"`
	Week          int              `json:"week"`
	Day           string           `json:"day"`
	Raw           string           `json:"raw"`
	Normalized    string           `json:"normalized"`
	TypeGuess     string           `json:"type_guess"`
	Segments      []Segment        `json:"segments,omitempty"`
	Metrics       WorkoutMetrics   `json:"metrics"`
	PaceDisplay   string           `json:"pace_display,omitempty"`
	EffortDisplay string           `json:"effort_display,omitempty"`
	Targets       IntensityTargets `json:"targets"`
}

// PerformanceEvidence is one historical performance observation used by the
// goal-time projector. The engine never mutates these.
type PerformanceEvidence struct {
	Source     types.EvidenceSource `json:"source"`
	DistanceKm float64              `json:"distance_km"`
	TimeSec    float64              `json:"time_sec"`
	Date       *time.Time           `json:"date,omitempty"`
}

// GoalTimeEstimate is the projector's output: a weighted goal time with a
// confidence tier derived from evidence count and projection spread.
type GoalTimeEstimate struct {
	GoalTimeSec  int              `json:"goal_time_sec"`
	Confidence   types.Confidence `json:"confidence"`
	EvidenceUsed int              `json:"evidence_used"`
	SpreadSec    int              `json:"spread_sec"`
}
