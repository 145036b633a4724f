package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
)

func gridRows(g Grid) [][]string {
	out := make([][]string, g.Rows())
	for r := range g.Rows() {
		out[r] = g.Row(r)
	}
	return out
}

func TestLoad_Empty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "\r\n"} {
		g := Load([]byte(in))
		assert.Equal(t, 0, g.Rows(), "input %q", in)
		assert.Equal(t, 0, g.Cols(), "input %q", in)
	}
}

func TestLoad_TrimsAndKeepsText(t *testing.T) {
	g := Load([]byte(" Unit , Question ,Marks\nU1,  What is 007?  , 08 \n"))
	require.Equal(t, 2, g.Rows())
	require.Equal(t, 3, g.Cols())
	assert.Equal(t, []string{"Unit", "Question", "Marks"}, g.Row(0))
	// No numeric coercion: leading zeros survive.
	assert.Equal(t, []string{"U1", "What is 007?", "08"}, g.Row(1))
}

func TestLoad_PadsShortRows(t *testing.T) {
	g := Load([]byte("a,b,c\n1\n2,3\n"))
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"1", "", ""},
		{"2", "3", ""},
	}, gridRows(g))
}

func TestLoad_SkipsWideRows(t *testing.T) {
	g := Load([]byte("a,b\n1,2,3\n4,5\n"))
	assert.Equal(t, [][]string{{"a", "b"}, {"4", "5"}}, gridRows(g))
}

func TestLoad_QuotedCells(t *testing.T) {
	g := Load([]byte("q,a\n\"Explain, with an example, recursion.\",\"multi\nline\"\n"))
	require.Equal(t, 2, g.Rows())
	assert.Equal(t, "Explain, with an example, recursion.", g.Cell(1, 0))
	assert.Equal(t, "multi\nline", g.Cell(1, 1))
}

func TestLoad_StripsUTF8BOM(t *testing.T) {
	g := Load([]byte("\xef\xbb\xbfQuestion,Answer\n"))
	assert.Equal(t, "Question", g.Cell(0, 0))
}

func TestLoad_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("Question\tMarks\nWhat is a stack?\t2\n"))
	require.NoError(t, err)

	g := LoadDelimited(data, '\t')
	assert.Equal(t, [][]string{
		{"Question", "Marks"},
		{"What is a stack?", "2"},
	}, gridRows(g))
}

func TestNewGrid_PadsToWidest(t *testing.T) {
	g := NewGrid([][]string{{"a"}, {"b", " c "}, nil})
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 2, g.Cols())
	assert.Equal(t, [][]string{{"a", ""}, {"b", "c"}, {"", ""}}, gridRows(g))
}

func TestRow_ReturnsCopy(t *testing.T) {
	g := NewGrid([][]string{{"x"}})
	row := g.Row(0)
	row[0] = "mutated"
	assert.Equal(t, "x", g.Cell(0, 0))
}

func xlsxBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadXLSX(t *testing.T) {
	data := xlsxBytes(t, [][]any{
		{"Question", "Answer", "Marks"},
		{"Define a queue.", "FIFO structure"},
	})
	g, err := LoadXLSX(data, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Question", "Answer", "Marks"},
		{"Define a queue.", "FIFO structure", ""},
	}, gridRows(g))
}

func TestLoadXLSX_UnknownSheet(t *testing.T) {
	data := xlsxBytes(t, [][]any{{"x"}})
	_, err := LoadXLSX(data, "Nope")
	assert.Error(t, err)
}

func TestLoadXLSX_NotAWorkbook(t *testing.T) {
	_, err := LoadXLSX([]byte("plain,text"), "")
	assert.Error(t, err)
}

func TestLoadFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "paper.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n"), 0o644))
	g, err := LoadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Cols())

	tsvPath := filepath.Join(dir, "paper.tsv")
	require.NoError(t, os.WriteFile(tsvPath, []byte("a,b\tc\n"), 0o644))
	g, err = LoadFile(tsvPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "c"}, g.Row(0))

	xlsxPath := filepath.Join(dir, "paper.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, xlsxBytes(t, [][]any{{"q", "a", "u"}}), 0o644))
	g, err = LoadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Cols())

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
