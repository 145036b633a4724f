package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Google is a Service backed by the Google Sheets v4 API.
type Google struct {
	api *gsheets.Service
}

// NewGoogle creates a Google client. A non-empty credentialsFile is used as
// service account credentials; otherwise the default credentials apply.
func NewGoogle(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Google, error) {
	base := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		base = append(base, option.WithCredentialsFile(credentialsFile))
	}
	api, err := gsheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Google{api: api}, nil
}

func (g *Google) Open(ctx context.Context, url string) (Spreadsheet, error) {
	id, err := ExtractSpreadsheetID(url)
	if err != nil {
		return nil, err
	}
	ss := &googleSpreadsheet{api: g.api, id: id}
	if _, err := ss.properties(ctx); err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	return ss, nil
}

type googleSpreadsheet struct {
	api *gsheets.Service
	id  string
}

func (s *googleSpreadsheet) ID() string { return s.id }

func (s *googleSpreadsheet) properties(ctx context.Context) ([]*gsheets.SheetProperties, error) {
	resp, err := s.api.Spreadsheets.Get(s.id).
		Fields("spreadsheetId", "sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apiError(err)
	}
	out := make([]*gsheets.SheetProperties, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			out = append(out, sh.Properties)
		}
	}
	return out, nil
}

func (s *googleSpreadsheet) Worksheets(ctx context.Context) ([]Worksheet, error) {
	props, err := s.properties(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Worksheet, len(props))
	for i, p := range props {
		out[i] = s.worksheet(p.Title)
	}
	return out, nil
}

func (s *googleSpreadsheet) Worksheet(ctx context.Context, title string) (Worksheet, error) {
	props, err := s.properties(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if p.Title == title {
			return s.worksheet(p.Title), nil
		}
	}
	return nil, fmt.Errorf("%q: %w", title, ErrWorksheetNotFound)
}

func (s *googleSpreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error) {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{
					Title: title,
					GridProperties: &gsheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	if _, err := s.api.Spreadsheets.BatchUpdate(s.id, req).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("add worksheet %q: %w", title, apiError(err))
	}
	return s.worksheet(title), nil
}

func (s *googleSpreadsheet) worksheet(title string) *googleWorksheet {
	return &googleWorksheet{api: s.api, spreadsheetID: s.id, title: title}
}

type googleWorksheet struct {
	api           *gsheets.Service
	spreadsheetID string
	title         string
}

func (w *googleWorksheet) Title() string { return w.title }

// a1 quotes the worksheet title for use in an A1 range.
func (w *googleWorksheet) a1(cells string) string {
	r := "'" + strings.ReplaceAll(w.title, "'", "''") + "'"
	if cells != "" {
		r += "!" + cells
	}
	return r
}

func (w *googleWorksheet) Values(ctx context.Context) ([][]string, error) {
	return w.get(ctx, w.a1(""))
}

func (w *googleWorksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	rows, err := w.get(ctx, w.a1(fmt.Sprintf("%d:%d", row, row)))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (w *googleWorksheet) get(ctx context.Context, rng string) ([][]string, error) {
	resp, err := w.api.Spreadsheets.Values.Get(w.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, apiError(err))
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

func (w *googleWorksheet) AppendRow(ctx context.Context, values []string) error {
	vr := &gsheets.ValueRange{Values: [][]any{toAny(values)}}
	_, err := w.api.Spreadsheets.Values.Append(w.spreadsheetID, w.a1("A1"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", w.title, apiError(err))
	}
	return nil
}

func (w *googleWorksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	rng := w.a1(fmt.Sprintf("A%d", row))
	vr := &gsheets.ValueRange{Values: [][]any{toAny(values)}}
	_, err := w.api.Spreadsheets.Values.Update(w.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, apiError(err))
	}
	return nil
}

func (w *googleWorksheet) Clear(ctx context.Context) error {
	_, err := w.api.Spreadsheets.Values.Clear(w.spreadsheetID, w.a1(""), &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", w.title, apiError(err))
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// apiError maps API failures onto the package's error types.
func apiError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch {
	case gerr.Code == http.StatusTooManyRequests,
		strings.Contains(gerr.Message, "Quota exceeded"):
		return &QuotaError{Err: err}
	case gerr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrSpreadsheetNotFound, err)
	}
	return err
}
