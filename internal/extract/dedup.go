package extract

import (
	"strings"

	"github.com/abhisek/qcheck/internal/textnorm"
)

// Dedupe keeps the first record of every distinct normalised question and
// drops records whose question normalises to nothing. Order is preserved.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		key := textnorm.Normalize(r.Question)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// FlagDuplicates marks every record whose normalised question already
// appeared earlier in records, together with that earlier question text.
func FlagDuplicates(records []Record) []DuplicateFlag {
	first := make(map[string]string, len(records))
	flags := make([]DuplicateFlag, len(records))
	for i, r := range records {
		q := strings.TrimSpace(r.Question)
		key := textnorm.Normalize(q)
		if earlier, ok := first[key]; ok {
			flags[i] = DuplicateFlag{Duplicate: true, Of: earlier}
			continue
		}
		first[key] = q
	}
	return flags
}
