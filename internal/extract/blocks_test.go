package extract

import (
	"testing"

	"github.com/abhisek/qcheck/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBlocks_NoHeader(t *testing.T) {
	g := table.NewGrid([][]string{
		{"1", "What is recursion?"},
		{"2", "Define a heap."},
	})
	assert.Nil(t, DetectBlocks(g))
	assert.Nil(t, DetectBlocks(table.Grid{}))
}

func TestDetectBlocks_PrefersRowWithMostQuestionCells(t *testing.T) {
	single := []string{"Question No.", "", "", ""}
	double := []string{"Question", "Answer", "Question", "Answer"}

	orders := map[string][][]string{
		"double last":  {single, single, double},
		"double first": {double, single, single},
	}
	for name, rows := range orders {
		t.Run(name, func(t *testing.T) {
			blocks := DetectBlocks(table.NewGrid(rows))
			require.Len(t, blocks, 2)
			assert.Equal(t, 0, blocks[0].QuestionCol)
			assert.Equal(t, 1, blocks[0].AnswerCol)
			assert.Equal(t, 2, blocks[1].QuestionCol)
			assert.Equal(t, 3, blocks[1].AnswerCol)
		})
	}
}

func TestDetectBlocks_TieKeepsEarliestRow(t *testing.T) {
	g := table.NewGrid([][]string{
		{"Question", "Answer", ""},
		{"", "Question", "Marks"},
	})
	blocks := DetectBlocks(g)
	require.Len(t, blocks, 1)
	assert.Equal(t, 0, blocks[0].QuestionCol)
	assert.Equal(t, 1, blocks[0].AnswerCol)
	assert.Equal(t, NoColumn, blocks[0].MarksCol)
}

func TestDetectBlocks_Roles(t *testing.T) {
	g := table.NewGrid([][]string{
		{"S.No", "Question", "Answer Key", "Bloom's Taxonomy Level", "Topic", "Max Score"},
	})
	blocks := DetectBlocks(g)
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{QuestionCol: 1, AnswerCol: 2, BloomCol: 3, UnitCol: 4, MarksCol: 5}, blocks[0])
}

func TestDetectBlocks_RolesAreIndependent(t *testing.T) {
	g := table.NewGrid([][]string{{"Question", "Unit Marks"}})
	blocks := DetectBlocks(g)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].UnitCol)
	assert.Equal(t, 1, blocks[0].MarksCol)
	assert.Equal(t, NoColumn, blocks[0].AnswerCol)
	assert.Equal(t, NoColumn, blocks[0].BloomCol)
}

func TestDetectBlocks_FirstMatchWins(t *testing.T) {
	g := table.NewGrid([][]string{{"Question", "Answer", "Answer (alt)"}})
	blocks := DetectBlocks(g)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].AnswerCol)
}

func TestDetectBlocks_OnlyLooksRight(t *testing.T) {
	g := table.NewGrid([][]string{{"Unit", "Question", "Answer", "Marks"}})
	blocks := DetectBlocks(g)
	require.Len(t, blocks, 1)
	assert.Equal(t, NoColumn, blocks[0].UnitCol)
	assert.Equal(t, 2, blocks[0].AnswerCol)
	assert.Equal(t, 3, blocks[0].MarksCol)
}

func TestDetectBlocks_LookaheadWindow(t *testing.T) {
	header := func(answerAt int) []string {
		row := make([]string, answerAt+1)
		row[0] = "Question"
		row[answerAt] = "Answer"
		return row
	}

	inside := DetectBlocks(table.NewGrid([][]string{header(lookahead - 1)}))
	require.Len(t, inside, 1)
	assert.Equal(t, lookahead-1, inside[0].AnswerCol)

	outside := DetectBlocks(table.NewGrid([][]string{header(lookahead)}))
	require.Len(t, outside, 1)
	assert.Equal(t, NoColumn, outside[0].AnswerCol)
}

func TestDetectBlocks_HeaderScanLimit(t *testing.T) {
	rows := make([][]string, maxHeaderScanRows+1)
	for i := range rows {
		rows[i] = []string{"filler"}
	}
	rows[maxHeaderScanRows] = []string{"Question"}
	assert.Nil(t, DetectBlocks(table.NewGrid(rows)))

	rows[maxHeaderScanRows-1] = []string{"Question"}
	assert.Len(t, DetectBlocks(table.NewGrid(rows)), 1)
}
