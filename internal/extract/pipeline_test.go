package extract

import (
	"testing"

	"github.com/abhisek/qcheck/internal/table"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func rec(q, answer, bloom, unit, marks string) Record {
	return Record{Question: q, Answer: answer, Bloom: bloom, Unit: unit, MarksRaw: marks, Confidence: Score(q)}
}

func TestExtract_StructuredEndToEnd(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Question", "Answer", "Unit", "Marks"},
		{"What is recursion?", "A function calling itself", "Unit 1", "2 Marks"},
		{"Define a binary search tree.", "Ordered binary tree", "Unit 2", "8"},
		{"ok", "", "Unit 2", ""},
	})
	res := Extract(g, Options{})

	assert.Equal(t, ModeStructured, res.Mode)
	want := []Record{
		rec("What is recursion?", "A function calling itself", "", "Unit 1", "2 Marks"),
		rec("Define a binary search tree.", "Ordered binary tree", "", "Unit 2", "8"),
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	for _, r := range res.Records {
		assert.GreaterOrEqual(t, r.Confidence, StructuredThreshold)
	}
}

func TestExtract_StructuredUnitLeftOfQuestion(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Unit", "Question", "Answer", "Marks"},
		{"Unit 1", "What is recursion?", "A function calling itself", "4 marks"},
	})
	res := Extract(g, Options{})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "A function calling itself", res.Records[0].Answer)
	assert.Equal(t, "4 marks", res.Records[0].MarksRaw)
	assert.Equal(t, "", res.Records[0].Unit)
}

func TestExtract_StructuredCarriesMarksForward(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Question", "Answer"},
		{"2 Marks", ""},
		{"What is a compiler?", "Translator"},
		{"Explain paging in detail.", ""},
		{"8 marks", ""},
		{"Explain segmentation in detail.", ""},
	})
	res := Extract(g, Options{})
	want := []Record{
		rec("What is a compiler?", "Translator", "", "", "2"),
		rec("Explain paging in detail.", "", "", "", "2"),
		rec("Explain segmentation in detail.", "", "", "", "8"),
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StructuredStopsAtFirstMarksCellInRow(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Question", "Notes", "Extra"},
		{"What is an interpreter?", "4 marks", "16 marks"},
		{"What is a linker?", "", ""},
	})
	res := Extract(g, Options{})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "4", res.Records[0].MarksRaw)
	assert.Equal(t, "4", res.Records[1].MarksRaw, "16 marks was never observed")
}

func TestExtract_FallbackChecksEveryMarksCell(t *testing.T) {
	g := table.NewGrid([][]string{
		{"What is an interpreter?", "4 marks", "16 marks"},
		{"What is a linker?", "", ""},
	})
	res := Extract(g, Options{})
	assert.Equal(t, ModeFallback, res.Mode)
	assert.Empty(t, res.Blocks)
	want := []Record{
		rec("What is an interpreter?", "", "", "", ""),
		rec("What is a linker?", "", "", "", "16"),
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_FallbackUsesStricterThreshold(t *testing.T) {
	g := table.NewGrid([][]string{
		{"1", "Define a binary search tree."},
		{"2", "What is recursion?"},
	})
	res := Extract(g, Options{})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "What is recursion?", res.Records[0].Question)
	assert.GreaterOrEqual(t, res.Records[0].Confidence, FallbackThreshold)
}

func TestExtract_ZeroMarksClearsCarry(t *testing.T) {
	g := table.NewGrid([][]string{
		{"8 marks"},
		{"What is recursion?"},
		{"0 marks"},
		{"What is iteration?"},
	})
	res := Extract(g, Options{})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "8", res.Records[0].MarksRaw)
	assert.Equal(t, "", res.Records[1].MarksRaw)
}

func TestExtract_MultipleBlocksRowMajorOrder(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Question", "Answer", "Question", "Answer"},
		{"What is a stack?", "LIFO", "What is a queue?", "FIFO"},
		{"What is a heap?", "Tree", "", ""},
	})
	res := Extract(g, Options{})
	require.Len(t, res.Blocks, 2)
	got := make([]string, len(res.Records))
	for i, r := range res.Records {
		got[i] = r.Question + "|" + r.Answer
	}
	assert.Equal(t, []string{
		"What is a stack?|LIFO",
		"What is a queue?|FIFO",
		"What is a heap?|Tree",
	}, got)
}

func TestExtract_DedupeOption(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Question"},
		{"What is recursion?"},
		{"what is  RECURSION?"},
		{"Define recursion with an example."},
	})

	deduped := Extract(g, Options{})
	assert.Len(t, deduped.Records, 2)

	kept := Extract(g, Options{KeepDuplicates: true})
	assert.Len(t, kept.Records, 3)
	assert.Equal(t, "what is  RECURSION?", kept.Records[1].Question)
}

func TestExtract_EmptyGrid(t *testing.T) {
	res := Extract(table.Grid{}, Options{})
	assert.Equal(t, ModeFallback, res.Mode)
	assert.Empty(t, res.Records)
}

func TestExtract_ConfidenceMatchesScore(t *testing.T) {
	g := table.Load([]byte("Question,Answer\nWhat is recursion?,x\nExplain the working of a stack with an example in detail,y\n"))
	for _, r := range Extract(g, Options{}).Records {
		assert.Equal(t, Score(r.Question), r.Confidence)
	}
}

func TestExtract_ReentrantAcrossGoroutines(t *testing.T) {
	grids := []table.Grid{
		table.NewGrid([][]string{
			{"Question", "Answer"},
			{"2 Marks", ""},
			{"What is a compiler?", "Translator"},
		}),
		table.NewGrid([][]string{
			{"16 marks"},
			{"What is recursion?"},
			{"Why do we need virtual memory?"},
		}),
		table.NewGrid([][]string{
			{"Question", "Marks"},
			{"Explain paging in detail.", "8"},
		}),
	}

	want := make([]Result, len(grids))
	for i, g := range grids {
		want[i] = Extract(g, Options{KeepDuplicates: true})
	}

	const rounds = 50
	got := make([]Result, rounds*len(grids))
	var eg errgroup.Group
	for i := range got {
		eg.Go(func() error {
			got[i] = Extract(grids[i%len(grids)], Options{KeepDuplicates: true})
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	for i, res := range got {
		if diff := cmp.Diff(want[i%len(grids)], res); diff != "" {
			t.Fatalf("run %d: concurrent result differs (-want +got):\n%s", i, diff)
		}
	}
}
