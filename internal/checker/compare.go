package checker

import (
	"math"

	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/similarity"
)

// Detail is the verdict for one submitted question.
type Detail struct {
	Question        string              `json:"new_question"`
	ClosestQuestion string              `json:"closest_previous_question"`
	ClosestSource   string              `json:"closest_source"`
	Score           float64             `json:"similarity_percentage"`
	Category        similarity.Category `json:"category"`
	Band            similarity.Band     `json:"band"`

	// MatchedSource repeats ClosestSource only for reframed and duplicate
	// verdicts.
	MatchedSource string `json:"matched_source"`

	Unit       string  `json:"unit"`
	Marks      int     `json:"marks"`
	MarksValid bool    `json:"marks_valid"`
	Confidence float64 `json:"confidence"`

	Duplicate   bool   `json:"duplicate"`
	DuplicateOf string `json:"duplicate_question"`
}

// Report summarises a check of a question set against a corpus.
type Report struct {
	RunID                  string   `json:"run_id,omitempty"`
	Assessment             string   `json:"assessment_name"`
	TotalQuestions         int      `json:"total_new_questions"`
	Overall                float64  `json:"overall_similarity_percentage"`
	DuplicatesWithinUpload int      `json:"duplicates_within_uploaded_paper"`
	Details                []Detail `json:"details"`
}

// Compare scores every record against corpus and flags records that repeat
// an earlier one in the same set. It does not touch records or corpus.
func Compare(records []extract.Record, corpus []similarity.Entry) Report {
	flags := extract.FlagDuplicates(records)
	rep := Report{
		TotalQuestions: len(records),
		Details:        make([]Detail, 0, len(records)),
	}

	var sum float64
	for i, r := range records {
		m := similarity.Closest(r.Question, corpus)
		res := similarity.Evaluate(m.Score)
		marks, ok := extract.NormalizeMarks(r.MarksRaw)

		d := Detail{
			Question:        r.Question,
			ClosestQuestion: m.Text,
			ClosestSource:   m.Source,
			Score:           round(m.Score, 2),
			Category:        res.Category,
			Band:            res.Band,
			Unit:            r.Unit,
			Marks:           marks,
			MarksValid:      ok,
			Confidence:      round(r.Confidence, 2),
			Duplicate:       flags[i].Duplicate,
			DuplicateOf:     flags[i].Of,
		}
		if m.Score >= similarity.ReframedThreshold {
			d.MatchedSource = m.Source
		}
		if d.Duplicate {
			rep.DuplicatesWithinUpload++
		}
		sum += d.Score
		rep.Details = append(rep.Details, d)
	}
	if len(records) > 0 {
		rep.Overall = round(sum/float64(len(records)), 1)
	}
	return rep
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
