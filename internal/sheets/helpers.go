package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/abhisek/qcheck/internal/textnorm"
)

// ReframedSheetName is the worksheet that collects reframed questions.
const ReframedSheetName = "Reframed Questions"

// ReframedHeader is the header enforced on the reframed worksheet.
var ReframedHeader = []string{"Question", "Answer", "Bloom's Taxonomy Level"}

// MarksTitleAliases lists the worksheet titles accepted for each marks value.
var MarksTitleAliases = map[int][]string{
	2:  {"2marks", "2mark", "2", "twomarks", "two"},
	4:  {"4marks", "4mark", "4", "fourmarks", "four"},
	8:  {"8marks", "8mark", "8", "eightmarks", "eight"},
	16: {"16marks", "16mark", "16", "sixteenmarks", "sixteen"},
}

var (
	spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]`)
)

// ExtractSpreadsheetID pulls the spreadsheet id out of a Google Sheets URL.
func ExtractSpreadsheetID(url string) (string, error) {
	m := spreadsheetIDRe.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return m[1], nil
}

// NormTitle reduces a worksheet title to lowercase letters and digits, so
// "2 Marks" and "2-marks" compare equal.
func NormTitle(title string) string {
	return nonAlnumRe.ReplaceAllString(textnorm.Normalize(title), "")
}

// MarksWorksheet picks the worksheet for marks out of worksheets using
// MarksTitleAliases. Worksheets are tried in order.
func MarksWorksheet(worksheets []Worksheet, marks int) (Worksheet, error) {
	aliases := MarksTitleAliases[marks]
	for _, ws := range worksheets {
		if slices.Contains(aliases, NormTitle(ws.Title())) {
			return ws, nil
		}
	}
	return nil, fmt.Errorf("marks sheet for %d not found in unit sheet: %w", marks, ErrWorksheetNotFound)
}

// FindMarksWorksheet lists the worksheets of ss and picks the one for marks.
func FindMarksWorksheet(ctx context.Context, ss Spreadsheet, marks int) (Worksheet, error) {
	wss, err := ss.Worksheets(ctx)
	if err != nil {
		return nil, err
	}
	return MarksWorksheet(wss, marks)
}

// Header returns the cleaned first row of ws.
func Header(ctx context.Context, ws Worksheet) ([]string, error) {
	row, err := ws.RowValues(ctx, 1)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(row))
	for i, h := range row {
		out[i] = textnorm.Clean(h)
	}
	return out, nil
}

// FindQuestionColumn returns the column titled "question", else the first
// column whose title contains "question", else 0.
func FindQuestionColumn(header []string) int {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = textnorm.Normalize(h)
	}
	if i := slices.Index(lowered, "question"); i >= 0 {
		return i
	}
	for i, h := range lowered {
		if strings.Contains(h, "question") {
			return i
		}
	}
	return 0
}

// ReadQuestions returns the question column of ws below its header,
// skipping blanks and repeated "question(s)" labels.
func ReadQuestions(ctx context.Context, ws Worksheet) ([]string, error) {
	values, err := ws.Values(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}

	qi := FindQuestionColumn(values[0])
	var out []string
	for _, row := range values[1:] {
		if qi >= len(row) {
			continue
		}
		q := textnorm.Clean(row[qi])
		if q == "" {
			continue
		}
		if low := strings.ToLower(q); low == "question" || low == "questions" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// RowInput is the content written for one question.
type RowInput struct {
	Question string
	Answer   string
	Bloom    string
}

// BuildRow lays out in to match header. The reframed header gets a plain
// three-column row; any other header gets the question in its question
// column and answer and bloom under the first headers mentioning them.
func BuildRow(header []string, in RowInput) []string {
	q := textnorm.Clean(in.Question)
	a := textnorm.Clean(in.Answer)
	b := textnorm.Clean(in.Bloom)

	if hasReframedHeader(header) {
		return []string{q, a, b}
	}

	row := make([]string, max(len(header), 1))
	row[FindQuestionColumn(header)] = q
	for i, h := range header {
		if strings.Contains(textnorm.Normalize(h), "answer") {
			row[i] = a
			break
		}
	}
	for i, h := range header {
		if strings.Contains(textnorm.Normalize(h), "bloom") {
			row[i] = b
			break
		}
	}
	return row
}

func hasReframedHeader(header []string) bool {
	if len(header) < len(ReframedHeader) {
		return false
	}
	for i, h := range ReframedHeader {
		if textnorm.Clean(header[i]) != h {
			return false
		}
	}
	return true
}

// EnsureReframedSheet returns the reframed worksheet of ss, creating it when
// missing and resetting it when its header is not ReframedHeader.
func EnsureReframedSheet(ctx context.Context, ss Spreadsheet) (Worksheet, error) {
	ws, err := ss.Worksheet(ctx, ReframedSheetName)
	if errors.Is(err, ErrWorksheetNotFound) {
		ws, err = ss.AddWorksheet(ctx, ReframedSheetName, 2000, 10)
	}
	if err != nil {
		return nil, fmt.Errorf("reframed sheet: %w", err)
	}

	header, err := Header(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("reframed sheet header: %w", err)
	}
	if hasReframedHeader(header) {
		return ws, nil
	}
	if err := ws.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear reframed sheet: %w", err)
	}
	if err := ws.UpdateRow(ctx, 1, ReframedHeader); err != nil {
		return nil, fmt.Errorf("write reframed header: %w", err)
	}
	return ws, nil
}
