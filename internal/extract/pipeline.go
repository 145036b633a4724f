package extract

import "github.com/abhisek/qcheck/internal/table"

// Extract runs the extraction pipeline over g. Structured mode is used when a
// header row with question columns exists, fallback mode otherwise. Records
// are deduplicated unless opts.KeepDuplicates is set.
func Extract(g table.Grid, opts Options) Result {
	var res Result
	if blocks := DetectBlocks(g); len(blocks) > 0 {
		res = Result{Mode: ModeStructured, Blocks: blocks, Records: extractStructured(g, blocks)}
	} else {
		res = Result{Mode: ModeFallback, Records: extractFallback(g)}
	}
	if !opts.KeepDuplicates {
		res.Records = Dedupe(res.Records)
	}
	return res
}

// extractStructured reads question cells through the detected blocks.
// Only the first standalone marks cell of a row updates the carried marks.
func extractStructured(g table.Grid, blocks []Block) []Record {
	var (
		out   []Record
		marks marksState
	)
	cell := func(r, c int) string {
		if c == NoColumn {
			return ""
		}
		return g.Cell(r, c)
	}
	for r := range g.Rows() {
		for c := range g.Cols() {
			if marks.observe(g.Cell(r, c)) {
				break
			}
		}

		for _, b := range blocks {
			q := g.Cell(r, b.QuestionCol)
			conf := Score(q)
			if conf < StructuredThreshold {
				continue
			}
			marksRaw := marks.String()
			if b.MarksCol != NoColumn {
				marksRaw = g.Cell(r, b.MarksCol)
			}
			out = append(out, Record{
				Question:   q,
				Answer:     cell(r, b.AnswerCol),
				Bloom:      cell(r, b.BloomCol),
				Unit:       cell(r, b.UnitCol),
				MarksRaw:   marksRaw,
				Confidence: conf,
			})
		}
	}
	return out
}

// extractFallback scans every cell. Unlike structured mode, every marks cell
// in a row updates the carry, since nothing says which one is authoritative.
func extractFallback(g table.Grid) []Record {
	var (
		out   []Record
		marks marksState
	)
	for r := range g.Rows() {
		for c := range g.Cols() {
			txt := g.Cell(r, c)
			if marks.observe(txt) {
				continue
			}
			conf := Score(txt)
			if conf < FallbackThreshold {
				continue
			}
			out = append(out, Record{
				Question:   txt,
				MarksRaw:   marks.String(),
				Confidence: conf,
			})
		}
	}
	return out
}
