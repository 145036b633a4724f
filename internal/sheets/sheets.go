// Package sheets reads and appends to spreadsheet worksheets, either through
// the Google Sheets API or an in-memory stand-in.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWorksheetNotFound is returned when a spreadsheet has no worksheet
	// with the requested title.
	ErrWorksheetNotFound = errors.New("worksheet not found")

	// ErrSpreadsheetNotFound is returned when a spreadsheet cannot be found.
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

	// ErrInvalidURL is returned for URLs without a spreadsheet id.
	ErrInvalidURL = errors.New("invalid Google Sheet URL")
)

// QuotaError indicates the backend rejected a call for exceeding its quota.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("sheets quota exceeded: %v", e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// IsQuota reports whether err is a quota error, either typed or recognisable
// from its message.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	var qe *QuotaError
	if errors.As(err, &qe) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "Quota exceeded") ||
		strings.Contains(msg, "Read requests")
}

// Service opens spreadsheets by URL.
type Service interface {
	Open(ctx context.Context, url string) (Spreadsheet, error)
}

// Spreadsheet is a workbook of titled worksheets.
type Spreadsheet interface {
	ID() string

	// Worksheets lists the worksheets in tab order.
	Worksheets(ctx context.Context) ([]Worksheet, error)

	// Worksheet returns the worksheet titled exactly title, or
	// ErrWorksheetNotFound.
	Worksheet(ctx context.Context, title string) (Worksheet, error)

	AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
}

// Worksheet is a single tab. Rows and columns are 1-based where numbered.
type Worksheet interface {
	Title() string

	// Values returns every non-empty row. Rows may be ragged.
	Values(ctx context.Context) ([][]string, error)

	// RowValues returns one row, or nil if it is empty.
	RowValues(ctx context.Context, row int) ([]string, error)

	// AppendRow writes values after the last non-empty row.
	AppendRow(ctx context.Context, values []string) error

	// UpdateRow overwrites row starting at column A.
	UpdateRow(ctx context.Context, row int, values []string) error

	// Clear removes all values.
	Clear(ctx context.Context) error
}
