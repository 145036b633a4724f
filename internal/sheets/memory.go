package sheets

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-memory Service. Spreadsheets are addressed by URLs built
// with URL.
type Memory struct {
	mu       sync.Mutex
	books    map[string]*memBook
	openErrs map[string]error
}

type memBook struct {
	sheets []*memSheet
}

type memSheet struct {
	title string
	rows  [][]string
}

// NewMemory returns an empty Memory service.
func NewMemory() *Memory {
	return &Memory{
		books:    make(map[string]*memBook),
		openErrs: make(map[string]error),
	}
}

// URL returns a Google Sheets style URL for spreadsheet id.
func URL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id + "/edit"
}

// SetValues replaces the rows of a worksheet, creating the spreadsheet and
// worksheet if needed.
func (m *Memory) SetValues(spreadsheetID, title string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.book(spreadsheetID)
	sh := b.sheet(title)
	if sh == nil {
		sh = &memSheet{title: title}
		b.sheets = append(b.sheets, sh)
	}
	sh.rows = cloneRows(rows)
}

// Rows returns a copy of a worksheet's rows, or nil if it does not exist.
func (m *Memory) Rows(spreadsheetID, title string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[spreadsheetID]
	if !ok {
		return nil
	}
	if sh := b.sheet(title); sh != nil {
		return cloneRows(sh.rows)
	}
	return nil
}

// FailOpen makes Open of spreadsheetID fail with err.
func (m *Memory) FailOpen(spreadsheetID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrs[spreadsheetID] = err
}

func (m *Memory) book(id string) *memBook {
	b, ok := m.books[id]
	if !ok {
		b = &memBook{}
		m.books[id] = b
	}
	return b
}

func (b *memBook) sheet(title string) *memSheet {
	for _, sh := range b.sheets {
		if sh.title == title {
			return sh
		}
	}
	return nil
}

func (m *Memory) Open(ctx context.Context, url string) (Spreadsheet, error) {
	id, err := ExtractSpreadsheetID(url)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.openErrs[id]; err != nil {
		return nil, err
	}
	if _, ok := m.books[id]; !ok {
		return nil, fmt.Errorf("open %s: %w", id, ErrSpreadsheetNotFound)
	}
	return &memSpreadsheet{m: m, id: id}, nil
}

type memSpreadsheet struct {
	m  *Memory
	id string
}

func (s *memSpreadsheet) ID() string { return s.id }

func (s *memSpreadsheet) Worksheets(ctx context.Context) ([]Worksheet, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	b := s.m.books[s.id]
	out := make([]Worksheet, len(b.sheets))
	for i, sh := range b.sheets {
		out[i] = &memWorksheet{m: s.m, sheet: sh}
	}
	return out, nil
}

func (s *memSpreadsheet) Worksheet(ctx context.Context, title string) (Worksheet, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	sh := s.m.books[s.id].sheet(title)
	if sh == nil {
		return nil, fmt.Errorf("%q: %w", title, ErrWorksheetNotFound)
	}
	return &memWorksheet{m: s.m, sheet: sh}, nil
}

func (s *memSpreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	b := s.m.books[s.id]
	if b.sheet(title) != nil {
		return nil, fmt.Errorf("worksheet %q already exists", title)
	}
	sh := &memSheet{title: title}
	b.sheets = append(b.sheets, sh)
	return &memWorksheet{m: s.m, sheet: sh}, nil
}

type memWorksheet struct {
	m     *Memory
	sheet *memSheet
}

func (w *memWorksheet) Title() string { return w.sheet.title }

func (w *memWorksheet) Values(ctx context.Context) ([][]string, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	return cloneRows(w.sheet.rows), nil
}

func (w *memWorksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	if row < 1 || row > len(w.sheet.rows) {
		return nil, nil
	}
	return slices.Clone(w.sheet.rows[row-1]), nil
}

func (w *memWorksheet) AppendRow(ctx context.Context, values []string) error {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	w.sheet.rows = append(w.sheet.rows, slices.Clone(values))
	return nil
}

func (w *memWorksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	if row < 1 {
		return fmt.Errorf("row %d out of range", row)
	}
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	for len(w.sheet.rows) < row {
		w.sheet.rows = append(w.sheet.rows, nil)
	}
	cur := w.sheet.rows[row-1]
	if len(cur) < len(values) {
		cur = append(cur, make([]string, len(values)-len(cur))...)
	}
	copy(cur, values)
	w.sheet.rows[row-1] = cur
	return nil
}

func (w *memWorksheet) Clear(ctx context.Context) error {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	w.sheet.rows = nil
	return nil
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}
