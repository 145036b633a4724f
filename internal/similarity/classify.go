package similarity

// Category is the verdict for a question compared against a corpus.
type Category string

const (
	CategoryNew       Category = "new"
	CategoryReframed  Category = "reframed"
	CategoryDuplicate Category = "duplicate"
)

// Band is a qualitative similarity level.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Classification thresholds on the 0-100 similarity scale.
const (
	DuplicateThreshold = 95.0
	ReframedThreshold  = 50.0
)

// Result is a score with its derived category and band.
type Result struct {
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Band     Band     `json:"band"`
}

// Classify maps a score to a category.
func Classify(score float64) Category {
	switch {
	case score >= DuplicateThreshold:
		return CategoryDuplicate
	case score >= ReframedThreshold:
		return CategoryReframed
	default:
		return CategoryNew
	}
}

// BandFor maps a score to a band.
func BandFor(score float64) Band {
	switch {
	case score >= DuplicateThreshold:
		return BandHigh
	case score >= ReframedThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// Evaluate classifies score.
func Evaluate(score float64) Result {
	return Result{Score: score, Category: Classify(score), Band: BandFor(score)}
}
