// Package locale maps localized training-plan vocabulary and table labels
// to canonical English tokens.
//
// All functions are pure and idempotent: re-normalizing already-normalized
// text is a no-op. Lookup tables are built once at init into immutable
// structures and never rebuilt per call.
package locale

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/strideworks/stride/internal/domain/types"
)

// stripMarks removes combining marks after NFD decomposition, turning
// "Samstag"/"Séance"/"Hügel" into plain-ASCII lookalikes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics returns text with diacritical marks removed. Input that
// fails to transform is returned unchanged.
func StripDiacritics(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		return text
	}
	return out
}

// labelAliases maps cleaned header tokens to their canonical labels.
// German and French day abbreviations come from plan PDFs seen in the wild.
var labelAliases = map[string]types.TableLabel{
	// week column
	"week": types.Week, "wk": types.Week, "woche": types.Week,
	"kw": types.Week, "semaine": types.Week, "sem": types.Week,

	"monday": types.Monday, "mon": types.Monday, "montag": types.Monday,
	"mo": types.Monday, "lundi": types.Monday, "lun": types.Monday,

	"tuesday": types.Tuesday, "tue": types.Tuesday, "tues": types.Tuesday,
	"dienstag": types.Tuesday, "di": types.Tuesday,
	"mardi": types.Tuesday, "mar": types.Tuesday,

	"wednesday": types.Wednesday, "wed": types.Wednesday,
	"mittwoch": types.Wednesday, "mi": types.Wednesday,
	"mercredi": types.Wednesday, "mer": types.Wednesday,

	"thursday": types.Thursday, "thu": types.Thursday, "thur": types.Thursday,
	"thurs": types.Thursday, "donnerstag": types.Thursday, "do": types.Thursday,
	"jeudi": types.Thursday, "jeu": types.Thursday,

	"friday": types.Friday, "fri": types.Friday, "freitag": types.Friday,
	"fr": types.Friday, "vendredi": types.Friday, "ven": types.Friday,

	"saturday": types.Saturday, "sat": types.Saturday, "samstag": types.Saturday,
	"sa": types.Saturday, "sonnabend": types.Saturday,
	"samedi": types.Saturday, "sam": types.Saturday,

	"sunday": types.Sunday, "sun": types.Sunday, "sonntag": types.Sunday,
	"so": types.Sunday, "dimanche": types.Sunday, "dim": types.Sunday,
}

var nonLetters = regexp.MustCompile(`[^a-z]+`)

// CanonicalTableLabel maps a single plan-table header token to its canonical
// label. Unmapped tokens return ok=false; the caller must not guess.
func CanonicalTableLabel(token string) (types.TableLabel, bool) {
	cleaned := nonLetters.ReplaceAllString(strings.ToLower(StripDiacritics(token)), "")
	if cleaned == "" {
		return 0, false
	}
	label, ok := labelAliases[cleaned]
	return label, ok
}

// substitution is one ordered phrase rewrite. Longer or more specific
// phrases must come before the generic words they contain, otherwise the
// generic rule fires first and the phrase never matches.
type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// phrase builds a case-insensitive, word-bounded substitution.
func phrase(pat, repl string) substitution {
	return substitution{
		pattern:     regexp.MustCompile(`(?i)\b` + pat + `\b`),
		replacement: repl,
	}
}

// planSubstitutions rewrites German and French plan vocabulary to the
// English tokens the pattern library matches on. Order matters.
var planSubstitutions = []substitution{
	// German
	phrase("ruhetag", "rest day"),
	phrase("krafttraining", "strength"),
	phrase("wettkampftempo", "race pace"),
	phrase("wettkampf", "race"),
	phrase("schwellentempo", "threshold pace"),
	phrase("schwelle", "threshold"),
	phrase("tempolauf", "tempo run"),
	phrase("dauerlauf", "steady run"),
	phrase("langer lauf", "long run"),
	phrase("lauf locker", "run easy"),
	phrase("lauf leicht", "run easy"),
	phrase("lauf", "run"),
	phrase("locker", "easy"),
	phrase("leicht", "easy"),
	phrase("intervalle", "intervals"),
	phrase("wiederholungen", "repeats"),
	phrase("steigerungen", "strides"),
	phrase("hugel", "hills"),
	phrase("aufwarmen", "warm up"),
	phrase("auslaufen", "cool down"),
	phrase("minuten", "minutes"),
	phrase("sekunden", "seconds"),
	phrase("stunden", "hours"),
	phrase("woche", "week"),
	// French
	phrase("jour de repos", "rest day"),
	phrase("repos", "rest"),
	phrase("course a pied", "run"),
	phrase("footing", "easy run"),
	phrase("endurance fondamentale", "easy run"),
	phrase("sortie longue", "long run"),
	phrase("allure course", "race pace"),
	phrase("allure", "pace"),
	phrase("seuil", "threshold"),
	phrase("fractionne", "intervals"),
	phrase("cotes", "hills"),
	phrase("echauffement", "warm up"),
	phrase("recuperation", "recovery"),
	phrase("seance", "session"),
	phrase("semaine", "week"),
}

// NormalizePlanText strips diacritics and applies the ordered substitution
// table. Text with no localized vocabulary passes through unchanged.
func NormalizePlanText(text string) string {
	out := StripDiacritics(text)
	for _, sub := range planSubstitutions {
		out = sub.pattern.ReplaceAllString(out, sub.replacement)
	}
	return out
}

// weekNumber matches the first run of one or two digits anywhere in the
// string. The unanchored first-match behavior is load-bearing: existing
// stored plans were numbered with it, so "Week 1 of 12" stays week 1.
var weekNumber = regexp.MustCompile(`\d{1,2}`)

// ExtractWeekNumber returns the first 1-2 digit number in text, ok=false if
// the text contains no digits.
func ExtractWeekNumber(text string) (int, bool) {
	m := weekNumber.FindString(text)
	if m == "" {
		return 0, false
	}
	n := 0
	for _, r := range m {
		n = n*10 + int(r-'0')
	}
	return n, true
}
