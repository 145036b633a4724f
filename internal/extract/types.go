// Package extract infers question records from schema-less grids.
//
// The engine is pure: every call owns its own marks accumulator and seen-sets,
// so concurrent calls on different grids behave exactly like sequential ones.
package extract

// NoColumn marks an optional Block role that has no matching column.
const NoColumn = -1

// Block groups the columns that belong to one detected question column.
type Block struct {
	QuestionCol int `json:"question_col"`

	// Optional roles; NoColumn when no header in the look-ahead window matched.
	AnswerCol int `json:"answer_col"`
	BloomCol  int `json:"bloom_col"`
	UnitCol   int `json:"unit_col"`
	MarksCol  int `json:"marks_col"`
}

// Record is one extracted question candidate.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Bloom    string `json:"bloom"`
	Unit     string `json:"unit"`
	MarksRaw string `json:"marks_raw"`

	// Confidence is Score(Question) at extraction time.
	Confidence float64 `json:"confidence"`
}

// Mode is the extraction strategy chosen for a grid.
type Mode string

const (
	// ModeStructured reads question cells from detected header blocks.
	ModeStructured Mode = "structured"

	// ModeFallback scans every cell when no header row was found.
	ModeFallback Mode = "fallback"
)

// Options controls a single extraction call.
type Options struct {
	// KeepDuplicates disables the dedup post-pass. Needed when the caller
	// wants to report duplicates within the same upload.
	KeepDuplicates bool
}

// Result is the outcome of one extraction call.
type Result struct {
	Mode    Mode     `json:"mode"`
	Blocks  []Block  `json:"blocks,omitempty"`
	Records []Record `json:"records"`
}

// DuplicateFlag tells whether a record repeats the text of an earlier one.
type DuplicateFlag struct {
	Duplicate bool   `json:"duplicate"`
	Of        string `json:"duplicate_question"`
}
