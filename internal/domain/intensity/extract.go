package intensity

import (
	"fmt"
	"regexp"
	"strings"
)

// Canonicalization helpers for matched pace substrings.
var (
	perToken   = regexp.MustCompile(`(?i)\s*\bper\b\s*`)
	slashSpace = regexp.MustCompile(`\s*/\s*`)
	rangeSep   = regexp.MustCompile(`\s*[-\x{2013}\x{2014}]\s*|\s+to\s+`)
	wsRun      = regexp.MustCompile(`\s+`)
)

// canonicalPace tidies a matched pace expression for display: "per km"
// becomes "/km", range separators become a bare dash, whitespace collapses.
// No unit conversion happens here.
func canonicalPace(match string) string {
	out := perToken.ReplaceAllString(match, "/")
	out = slashSpace.ReplaceAllString(out, "/")
	out = rangeSep.ReplaceAllString(out, "-")
	out = wsRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// ExtractPaceTarget returns a human-readable canonical pace string for the
// given free text. A concrete pace expression wins over bucket keywords;
// with neither present ok is false.
func ExtractPaceTarget(text string) (string, bool) {
	if match := paceExpr.FindString(text); match != "" {
		return canonicalPace(match), true
	}
	if bucket, ok := matchBucket(text); ok {
		return bucket.Label(), true
	}
	return "", false
}

// ExtractEffortTarget returns a canonical effort string for the given free
// text. Patterns are tried in fixed priority order; the first hit wins.
func ExtractEffortTarget(text string) (string, bool) {
	if m := rpeExpr.FindStringSubmatch(text); m != nil {
		if m[2] != "" {
			return fmt.Sprintf("RPE %s-%s/10", m[1], m[2]), true
		}
		return fmt.Sprintf("RPE %s/10", m[1]), true
	}
	if m := bareScale.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("RPE %s/10", m[1]), true
	}
	if m := hrZoneExpr.FindStringSubmatch(text); m != nil {
		zone := m[1]
		if zone == "" {
			zone = m[2]
		}
		return fmt.Sprintf("HR Zone Z%s", zone), true
	}
	if m := bpmRangeExpr.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("HR %s-%s", m[1], m[2]), true
	}
	if m := bpmExpr.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("HR %s", m[1]), true
	}
	if m := wordEffort.FindStringSubmatch(text); m != nil {
		word := strings.ToLower(m[1])
		return strings.ToUpper(word[:1]) + word[1:] + " effort", true
	}
	return "", false
}
