package similarity

// Entry is one corpus question and where it came from.
type Entry struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Match is the closest corpus entry found for a question.
type Match struct {
	Entry
	Score float64 `json:"score"`

	// Found is false when the corpus was empty or nothing scored above zero.
	Found bool `json:"found"`
}

// Closest returns the highest-scoring entry of corpus for question. Ties keep
// the entry that comes first in corpus.
func Closest(question string, corpus []Entry) Match {
	var best Match
	for _, e := range corpus {
		if s := Score(question, e.Text); s > best.Score {
			best = Match{Entry: e, Score: s, Found: true}
		}
	}
	return best
}

// BestOption picks the option most similar to target, used for fuzzy name
// lookups such as unit and worksheet titles. Ties keep the first option. It
// returns "" and 0 when no option scores above zero.
func BestOption(target string, options []string) (string, float64) {
	var (
		best  string
		score float64
	)
	for _, o := range options {
		if s := Score(target, o); s > score {
			best, score = o, s
		}
	}
	return best, score
}
