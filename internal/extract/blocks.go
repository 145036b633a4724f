package extract

import (
	"strings"

	"github.com/abhisek/qcheck/internal/table"
	"github.com/abhisek/qcheck/internal/textnorm"
)

const (
	// maxHeaderScanRows bounds the search for a header row.
	maxHeaderScanRows = 120

	// lookahead is the exclusive bound, relative to a question column, of
	// the window searched for its companion columns.
	lookahead = 12
)

// DetectBlocks finds the header row with the most "question" cells (earliest
// row on ties) and derives one Block per question column in it, left to
// right, so no two blocks share a question column. It returns nil when no
// row in the scan window mentions "question".
func DetectBlocks(g table.Grid) []Block {
	hdr := headerRow(g)
	if hdr == nil {
		return nil
	}

	var blocks []Block
	for c, h := range hdr {
		if strings.Contains(h, "question") {
			blocks = append(blocks, blockAt(hdr, c))
		}
	}
	return blocks
}

// headerRow returns the normalised cells of the chosen header row, or nil.
func headerRow(g table.Grid) []string {
	best, bestCount := -1, 0
	for r := range min(g.Rows(), maxHeaderScanRows) {
		count := 0
		for c := range g.Cols() {
			if strings.Contains(textnorm.Normalize(g.Cell(r, c)), "question") {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = r, count
		}
	}
	if best < 0 {
		return nil
	}
	hdr := make([]string, g.Cols())
	for c := range hdr {
		hdr[c] = textnorm.Normalize(g.Cell(best, c))
	}
	return hdr
}

// blockAt assigns companion roles for the question column q. Each role takes
// the first matching column in the window; roles are searched independently,
// so one column may serve several roles.
func blockAt(hdr []string, q int) Block {
	b := Block{
		QuestionCol: q,
		AnswerCol:   NoColumn,
		BloomCol:    NoColumn,
		UnitCol:     NoColumn,
		MarksCol:    NoColumn,
	}
	for k := q + 1; k < min(q+lookahead, len(hdr)); k++ {
		h := hdr[k]
		if b.AnswerCol == NoColumn && strings.Contains(h, "answer") {
			b.AnswerCol = k
		}
		if b.BloomCol == NoColumn && strings.Contains(h, "bloom") {
			b.BloomCol = k
		}
		if b.UnitCol == NoColumn && (strings.Contains(h, "unit") || strings.Contains(h, "topic")) {
			b.UnitCol = k
		}
		if b.MarksCol == NoColumn && (strings.Contains(h, "mark") || strings.Contains(h, "score")) {
			b.MarksCol = k
		}
	}
	return b
}
