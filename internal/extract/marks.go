package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/qcheck/internal/textnorm"
)

var (
	marksTokenRe = regexp.MustCompile(`\b(2|4|8|16)\b`)
	marksCellRe  = regexp.MustCompile(`^\s*(\d+)\s*marks?\s*$`)
)

// marksWords are checked as substrings, in this order.
var marksWords = []struct {
	word  string
	value int
}{
	{"two", 2},
	{"four", 4},
	{"eight", 8},
	{"sixteen", 16},
}

// ValidMarks reports whether m is one of the accepted mark values.
func ValidMarks(m int) bool {
	switch m {
	case 2, 4, 8, 16:
		return true
	}
	return false
}

// NormalizeMarks maps a free-text marks annotation to 2, 4, 8 or 16.
// A standalone digit token wins over spelled-out numbers; spelled-out numbers
// match as substrings, so "eighteen" reads as 8.
func NormalizeMarks(raw string) (int, bool) {
	t := textnorm.Normalize(raw)
	if m := marksTokenRe.FindStringSubmatch(t); m != nil {
		v, _ := strconv.Atoi(m[1])
		return v, true
	}
	for _, w := range marksWords {
		if strings.Contains(t, w.word) {
			return w.value, true
		}
	}
	return 0, false
}

// MarksFromText recognises a dedicated marks cell such as "8 Marks" or "16 mark".
// The whole cell must be the annotation; marks embedded in prose do not count.
func MarksFromText(cell string) (int, bool) {
	m := marksCellRe.FindStringSubmatch(textnorm.Normalize(cell))
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// marksState carries the most recent marks annotation forward through the
// rows of a single extraction call.
type marksState struct {
	value int
}

// observe updates the state when cell is a standalone marks annotation.
func (s *marksState) observe(cell string) bool {
	v, ok := MarksFromText(cell)
	if ok {
		s.value = v
	}
	return ok
}

// String renders the carried value; zero renders as empty, so "0 marks"
// clears the carry.
func (s *marksState) String() string {
	if s.value == 0 {
		return ""
	}
	return strconv.Itoa(s.value)
}
