// Package types contains the closed enumerations shared across the engine.
package types

import "encoding/json"

// PaceBucket is a semantic training-intensity category. The values are
// ordered by increasing physiological intensity; zone derivation and
// classification both key off this ordering.
type PaceBucket int

// Pace buckets, slowest to fastest.
const (
	Recovery PaceBucket = iota
	Easy
	Long
	Race
	Tempo
	Threshold
	Interval
)

// Buckets lists every bucket in intensity order. Iterate this instead of
// hand-writing the range so a new bucket cannot be missed.
func Buckets() []PaceBucket {
	return []PaceBucket{Recovery, Easy, Long, Race, Tempo, Threshold, Interval}
}

// String returns the canonical storage name of the bucket.
func (b PaceBucket) String() string {
	switch b {
	case Recovery:
		return "recovery"
	case Easy:
		return "easy"
	case Long:
		return "long"
	case Race:
		return "race"
	case Tempo:
		return "tempo"
	case Threshold:
		return "threshold"
	case Interval:
		return "interval"
	default:
		return "unknown"
	}
}

// Label returns the human-facing display label for the bucket.
func (b PaceBucket) Label() string {
	switch b {
	case Recovery:
		return "Recovery pace"
	case Easy:
		return "Easy pace"
	case Long:
		return "Long run pace"
	case Race:
		return "Race pace"
	case Tempo:
		return "Tempo pace"
	case Threshold:
		return "Threshold pace"
	case Interval:
		return "Interval pace"
	default:
		return "Unknown pace"
	}
}

// DistanceUnit identifies the measurement system of a distance or pace value.
type DistanceUnit int

// Supported distance units.
const (
	KM DistanceUnit = iota
	Miles
)

// String returns the unit token used in formatted paces, e.g. "7:30 /km".
func (u DistanceUnit) String() string {
	switch u {
	case Miles:
		return "mi"
	default:
		return "km"
	}
}

// ParseDistanceUnit resolves a free-form unit token. The second return is
// false for tokens that do not name a unit; callers must not guess.
func ParseDistanceUnit(token string) (DistanceUnit, bool) {
	switch normalizeToken(token) {
	case "km", "k", "kms", "kilometer", "kilometers", "kilometre", "kilometres":
		return KM, true
	case "mi", "mile", "miles":
		return Miles, true
	default:
		return KM, false
	}
}

func normalizeToken(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		}
	}
	return string(out)
}

// TargetMode describes how a pace target was expressed in the source text.
type TargetMode int

// Target modes.
const (
	// ModeUnknown means no bucket keyword and no concrete pace was found.
	ModeUnknown TargetMode = iota
	// ModeSymbolic means only a bucket keyword was found, e.g. "Tempo pace".
	ModeSymbolic
	// ModeNumeric means exactly one concrete pace value was found.
	ModeNumeric
	// ModeRange means one concrete low-high pace range was found.
	ModeRange
	// ModeHybrid means several concrete pace expressions were found in the
	// same text; bounds span all of them.
	ModeHybrid
)

// String returns the storage name of the mode.
func (m TargetMode) String() string {
	switch m {
	case ModeSymbolic:
		return "symbolic"
	case ModeNumeric:
		return "numeric"
	case ModeRange:
		return "range"
	case ModeHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// EffortKind describes which effort scale a structured effort target uses.
type EffortKind int

// Effort kinds.
const (
	EffortText EffortKind = iota
	EffortRPE
	EffortHRZone
	EffortHRBPM
)

// String returns the storage name of the effort kind.
func (k EffortKind) String() string {
	switch k {
	case EffortRPE:
		return "rpe"
	case EffortHRZone:
		return "hr_zone"
	case EffortHRBPM:
		return "hr_bpm"
	default:
		return "text"
	}
}

// Confidence grades a goal-time estimate by evidence quantity and spread.
type Confidence int

// Confidence tiers.
const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the storage name of the confidence tier.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// EvidenceSource tags where a performance observation came from.
type EvidenceSource int

// Evidence sources.
const (
	SourceManual EvidenceSource = iota
	SourceSynced
)

// String returns the storage name of the evidence source.
func (s EvidenceSource) String() string {
	switch s {
	case SourceSynced:
		return "synced"
	default:
		return "manual"
	}
}

// TableLabel is a canonical plan-table header label: the week column or one
// of the seven weekday columns.
type TableLabel int

// Canonical table labels.
const (
	Week TableLabel = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Days lists the weekday labels in plan-column order.
func Days() []TableLabel {
	return []TableLabel{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// The enums serialize as their storage names so persisted pipeline output
// stays readable and stable across value reordering.

// MarshalJSON implements json.Marshaler.
func (b PaceBucket) MarshalJSON() ([]byte, error) { return json.Marshal(b.String()) }

// MarshalJSON implements json.Marshaler.
func (u DistanceUnit) MarshalJSON() ([]byte, error) { return json.Marshal(u.String()) }

// MarshalJSON implements json.Marshaler.
func (m TargetMode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// MarshalJSON implements json.Marshaler.
func (k EffortKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// MarshalJSON implements json.Marshaler.
func (c Confidence) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// MarshalJSON implements json.Marshaler.
func (s EvidenceSource) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON implements json.Unmarshaler so manual evidence files can say
// "manual" or "synced".
func (s *EvidenceSource) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "synced" {
		*s = SourceSynced
	} else {
		*s = SourceManual
	}
	return nil
}

// String returns the lower-case canonical name of the label.
func (l TableLabel) String() string {
	switch l {
	case Week:
		return "week"
	case Monday:
		return "monday"
	case Tuesday:
		return "tuesday"
	case Wednesday:
		return "wednesday"
	case Thursday:
		return "thursday"
	case Friday:
		return "friday"
	case Saturday:
		return "saturday"
	case Sunday:
		return "sunday"
	default:
		return "unknown"
	}
}
