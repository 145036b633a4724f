package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/qcheck/internal/textnorm"
)

// Score thresholds used by the two extraction modes.
const (
	StructuredThreshold = 0.45
	FallbackThreshold   = 0.65
)

const minQuestionLen = 8

// junkLabels are header and label cells that are never questions.
var junkLabels = map[string]struct{}{
	"question":         {},
	"questions":        {},
	"answer":           {},
	"answers":          {},
	"unit":             {},
	"unit name":        {},
	"topic":            {},
	"bloom":            {},
	"blooms taxonomy":  {},
	"bloom taxonomy":   {},
	"bloom's taxonomy": {},
	"marks":            {},
	"mark":             {},
	"sl.no":            {},
	"s.no":             {},
	"sno":              {},
}

var leadWords = []string{
	"what", "why", "how", "define", "explain", "write", "list",
	"describe", "differentiate", "compare", "state", "give",
}

// Score estimates how likely a cell is an exam question, in [0, 1].
//
// Rules are applied in a fixed order to one running total which is clamped
// only at the end; reordering them changes results.
func Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	low := textnorm.Normalize(text)
	if _, ok := junkLabels[low]; ok {
		return 0
	}
	n := utf8.RuneCountInString(low)
	if n < minQuestionLen {
		return 0
	}

	score := 0.2
	if strings.HasSuffix(low, "?") {
		score += 0.4
	}
	if hasLeadWord(low) {
		score += 0.3
	}
	words := len(strings.Fields(low))
	if words >= 6 {
		score += 0.2
	}
	if words >= 10 {
		score += 0.1
	}
	digits := 0
	for _, r := range low {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if float64(digits) > float64(n)*0.3 {
		score -= 0.3
	}
	return min(1, max(0, score))
}

// hasLeadWord is a plain prefix test: "whatever" counts as starting with "what".
func hasLeadWord(low string) bool {
	for _, w := range leadWords {
		if strings.HasPrefix(low, w) {
			return true
		}
	}
	return false
}
