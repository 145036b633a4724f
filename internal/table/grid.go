// Package table turns raw spreadsheet exports into a rectangular grid of
// trimmed text cells. Nothing here knows about questions; the grid is the
// only contract with the extractor.
package table

import "strings"

// Grid is an immutable rows × cols array of trimmed cells.
type Grid struct {
	cells [][]string
	cols  int
}

// NewGrid builds a Grid from in-memory rows. Cells are trimmed and every row
// is padded with empty strings to the width of the widest row.
func NewGrid(rows [][]string) Grid {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return newGrid(rows, width)
}

// newGrid pads or trims rows to exactly width columns.
func newGrid(rows [][]string, width int) Grid {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		out := make([]string, width)
		for c := 0; c < width && c < len(row); c++ {
			out[c] = cleanCell(row[c])
		}
		cells = append(cells, out)
	}
	return Grid{cells: cells, cols: width}
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Cell returns the trimmed text at row r, column c.
func (g Grid) Cell(r, c int) string { return g.cells[r][c] }

// Row returns a copy of row r.
func (g Grid) Row(r int) []string {
	out := make([]string, g.cols)
	copy(out, g.cells[r])
	return out
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}
