// Package intensity extracts structured pace and effort targets from
// free-text workout descriptions.
//
// The package holds the single bucket-keyword table shared by extraction,
// classification, and zone derivation. Earlier revisions of the product
// carried a second inlined copy of this table; keep it consolidated here.
package intensity

import (
	"regexp"

	"github.com/strideworks/stride/internal/domain/types"
)

// bucketRule binds one pace bucket to the keyword pattern that detects it.
type bucketRule struct {
	bucket  types.PaceBucket
	pattern *regexp.Regexp
}

// bucketRules is scanned in order and the first hit wins. The order is
// most-specific first: "race pace" must beat the bare "easy" inside longer
// phrases, and threshold/tempo markers must beat the generic run words.
var bucketRules = []bucketRule{
	{types.Race, regexp.MustCompile(`(?i)race\s*pace|goal\s*pace|marathon\s*pace|\bmp\b|\brace\b`)},
	{types.Threshold, regexp.MustCompile(`(?i)threshold|lactate|\blt\b`)},
	{types.Tempo, regexp.MustCompile(`(?i)\btempo\b`)},
	// The bare NxM alternation makes "6x400" interval work even without an
	// interval keyword, at the same priority slot as the keywords.
	{types.Interval, regexp.MustCompile(`(?i)\binterval(?:s)?\b|\brepeats?\b|\breps\b|\bstrides?\b|speed\s*work|track\s*work|\bvo2(?:\s*max)?\b|\b\d{1,2}\s*[x]\s*\d{2,4}m?\b`)},
	{types.Long, regexp.MustCompile(`(?i)long\s*run|\blong\b|\blsd\b`)},
	{types.Recovery, regexp.MustCompile(`(?i)recovery|regeneration|shakeout`)},
	{types.Easy, regexp.MustCompile(`(?i)\beasy\b|conversational|relaxed|\bjog(?:ging)?\b`)},
}

// matchBucket runs the shared keyword scan. ok is false when no bucket
// keyword appears in the text.
func matchBucket(text string) (types.PaceBucket, bool) {
	for _, rule := range bucketRules {
		if rule.pattern.MatchString(text) {
			return rule.bucket, true
		}
	}
	return 0, false
}

// paceExpr matches one concrete pace expression: mm:ss or mm.ss, optional
// range to a second value, optional "min(s)" prefix, optional "/unit" or
// "per unit" suffix.
//
// Capture groups: 1,2 primary minutes/seconds; 3,4 secondary; 5 unit token.
var paceExpr = regexp.MustCompile(`(?i)(?:mins?\s*)?(\d{1,2})[:.](\d{2})(?:\s*(?:[-\x{2013}\x{2014}]|to)\s*(\d{1,2})[:.](\d{2}))?(?:\s*(?:/|per)\s*(miles|mile|mi|kms|km|k)\b)?`)

// Effort patterns, tried in priority order by both effort parsers.
var (
	rpeExpr      = regexp.MustCompile(`(?i)\brpe\s*(\d{1,2})(?:\s*(?:[-\x{2013}]|to)\s*(\d{1,2}))?(?:\s*/\s*10)?`)
	bareScale    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*/\s*10\b`)
	hrZoneExpr   = regexp.MustCompile(`(?i)\bzone\s*([1-5])\b|\bz([1-5])\b`)
	bpmRangeExpr = regexp.MustCompile(`(?i)\b(\d{2,3})\s*(?:[-\x{2013}]|to)\s*(\d{2,3})\s*bpm\b`)
	bpmExpr      = regexp.MustCompile(`(?i)\b(\d{2,3})\s*bpm\b`)
	wordEffort   = regexp.MustCompile(`(?i)\b(easy|moderate|hard)\s+effort\b`)
)

// restOrOff short-circuits classification for non-pace-bearing activities.
var restOrOff = regexp.MustCompile(`(?i)\brest\b|\boff\b`)
