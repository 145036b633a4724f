package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load parses comma-delimited bytes into a Grid. See LoadDelimited.
func Load(data []byte) Grid {
	return LoadDelimited(data, ',')
}

// LoadDelimited parses delimited text with no header assumption: every row,
// including a prospective header, is data and every cell is kept as text.
//
// The grid width is the width of the first parsed row. Shorter rows are
// padded with empty cells; wider rows and rows the CSV reader rejects are
// skipped. Empty input yields a zero-row grid.
func LoadDelimited(data []byte, comma rune) Grid {
	// UTF-16 exports carry a BOM; the override decoder handles both those and
	// plain UTF-8 (with or without BOM).
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), dec))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	width := -1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			// Decoder or read failure: keep what was parsed so far.
			break
		}
		if width < 0 {
			width = len(rec)
		}
		if len(rec) > width {
			continue
		}
		rows = append(rows, rec)
	}
	if width < 0 {
		return Grid{}
	}
	return newGrid(rows, width)
}

// LoadXLSX reads one worksheet of an .xlsx workbook. An empty sheet name
// selects the first sheet. Rows are padded to the widest row.
func LoadXLSX(data []byte, sheet string) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Grid{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Grid{}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Grid{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return NewGrid(rows), nil
}

// LoadFile reads a file from disk and picks the loader from its extension:
// .xlsx workbooks, .tsv tab-delimited text, anything else comma-delimited.
func LoadFile(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(data, "")
	case ".tsv":
		return LoadDelimited(data, '\t'), nil
	default:
		return Load(data), nil
	}
}
