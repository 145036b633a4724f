package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func records(questions ...string) []Record {
	out := make([]Record, len(questions))
	for i, q := range questions {
		out[i] = Record{Question: q, Confidence: Score(q)}
	}
	return out
}

func TestDedupe(t *testing.T) {
	in := records("What is recursion?", "what   is recursion?", "Define recursion.")
	got := Dedupe(in)
	assert.Equal(t, []Record{in[0], in[2]}, got)
}

func TestDedupe_DropsEmpty(t *testing.T) {
	in := records("  ", "What is a trie?", "")
	assert.Equal(t, []Record{in[1]}, Dedupe(in))
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestFlagDuplicates(t *testing.T) {
	in := records("What is recursion?", "  what  is RECURSION? ", "Define recursion.", "WHAT IS RECURSION?")
	got := FlagDuplicates(in)
	assert.Equal(t, []DuplicateFlag{
		{},
		{Duplicate: true, Of: "What is recursion?"},
		{},
		{Duplicate: true, Of: "What is recursion?"},
	}, got)
}
