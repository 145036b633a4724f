// Package report renders command results as JSON or as styled terminal
// tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/qcheck/internal/checker"
	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/master"
	"github.com/abhisek/qcheck/internal/store"
)

// questionWidth caps question text in table cells.
const questionWidth = 60

// Extraction is the extraction result for one input file.
type Extraction struct {
	File string `json:"file"`
	extract.Result
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Extractions renders one section per file.
func Extractions(w io.Writer, files []Extraction) error {
	var sections []string
	for _, f := range files {
		head := Title.Render(f.File) + "  " +
			Label.Render(fmt.Sprintf("%s mode, %d blocks, %d questions", f.Mode, len(f.Blocks), len(f.Records)))
		if len(f.Records) == 0 {
			sections = append(sections, head+"\n"+Hint.Render("No question candidates found."))
			continue
		}

		t := newTable("#", "Question", "Unit", "Marks", "Confidence")
		for i, r := range f.Records {
			marks := ""
			if m, ok := extract.NormalizeMarks(r.MarksRaw); ok {
				marks = strconv.Itoa(m)
			}
			t.Row(strconv.Itoa(i+1), clip(r.Question, questionWidth), r.Unit, marks, fmt.Sprintf("%.2f", r.Confidence))
		}
		sections = append(sections, head+"\n"+t.String())
	}
	return write(w, strings.Join(sections, "\n\n"))
}

// Check renders a similarity report.
func Check(w io.Writer, rep checker.Report) error {
	var b strings.Builder
	b.WriteString(Title.Render("Similarity check"))
	if rep.Assessment != "" {
		b.WriteString("  " + Body.Render(rep.Assessment))
	}
	b.WriteString("\n")
	b.WriteString(field("Questions", strconv.Itoa(rep.TotalQuestions)))
	b.WriteString(field("Overall", fmt.Sprintf("%.1f%%  %s", rep.Overall, Bar(rep.Overall/100, 20))))
	b.WriteString(field("Repeated in upload", strconv.Itoa(rep.DuplicatesWithinUpload)))
	if rep.RunID != "" {
		b.WriteString(field("Run", rep.RunID))
	}

	if len(rep.Details) > 0 {
		t := newTable("#", "Question", "Score", "Verdict", "Closest match", "Source")
		t.StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderCell
			case col == 3:
				return categoryColor(rep.Details[row].Category)
			case col >= 4:
				return DimCell
			}
			return Cell
		})
		for i, d := range rep.Details {
			q := clip(d.Question, questionWidth)
			if d.Duplicate {
				q += " (repeat)"
			}
			t.Row(strconv.Itoa(i+1), q, fmt.Sprintf("%.2f", d.Score),
				fmt.Sprintf("%s/%s", d.Category, d.Band),
				clip(d.ClosestQuestion, questionWidth), d.ClosestSource)
		}
		b.WriteString("\n" + t.String())
	}
	return write(w, b.String())
}

// Import renders the outcome of an import.
func Import(w io.Writer, res checker.ImportResult) error {
	return write(w, Title.Render("Imported "+res.AssessmentName)+"\n"+
		field("Assessment ID", strconv.FormatInt(res.AssessmentID, 10))+
		field("Candidates found", strconv.Itoa(res.CandidatesFound))+
		field("Saved", strconv.Itoa(res.Saved)))
}

// Master renders a master-sheet sync summary.
func Master(w io.Writer, sum master.Summary) error {
	var b strings.Builder
	heading := "Master sheet sync"
	if sum.DryRun {
		heading += " (dry run)"
	}
	b.WriteString(Title.Render(heading) + "\n")
	b.WriteString(field("Tab", sum.MasterTab))
	b.WriteString(field("Extracted", strconv.Itoa(sum.Extracted)))
	b.WriteString(field("Added new", strconv.Itoa(sum.AddedNew)))
	b.WriteString(field("Added reframed", strconv.Itoa(sum.AddedReframed)))
	b.WriteString(field("Skipped duplicates", strconv.Itoa(sum.SkippedDuplicates)))
	b.WriteString(field("Unit open errors", strconv.Itoa(sum.UnitOpenErrors)))

	if len(sum.Details) > 0 {
		t := newTable("#", "Question", "Unit", "Marks", "Result")
		t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCell
			}
			d := sum.Details[row]
			if col == 4 {
				if d.Status == master.StatusError {
					return Cell.Foreground(Error)
				}
				return categoryColor(d.Category)
			}
			return Cell
		})
		for i, d := range sum.Details {
			marks := ""
			if d.Marks > 0 {
				marks = strconv.Itoa(d.Marks)
			}
			result := d.Message
			if d.Status != master.StatusError {
				result = fmt.Sprintf("%s (%s, %.2f)", d.Action, d.Category, d.Score)
			}
			t.Row(strconv.Itoa(i+1), clip(d.Question, questionWidth), d.Unit, marks, result)
		}
		b.WriteString("\n" + t.String())
	}
	return write(w, b.String())
}

// Assessments renders the stored assessments.
func Assessments(w io.Writer, list []store.Assessment) error {
	if len(list) == 0 {
		return write(w, Hint.Render("No assessments imported yet."))
	}
	t := newTable("ID", "Name", "Questions")
	for _, a := range list {
		t.Row(strconv.FormatInt(a.ID, 10), a.Name, strconv.Itoa(a.QuestionCount))
	}
	return write(w, t.String())
}

// AssessmentDetail is an assessment with its stored questions.
type AssessmentDetail struct {
	store.Assessment
	Questions []store.Question `json:"questions"`
}

// Assessment renders one assessment and its questions.
func Assessment(w io.Writer, a AssessmentDetail) error {
	head := Title.Render(a.Name) + "  " +
		Label.Render(fmt.Sprintf("id %d, %d questions", a.ID, len(a.Questions)))
	if len(a.Questions) == 0 {
		return write(w, head)
	}
	t := newTable("#", "Question", "Topic", "Marks")
	for i, q := range a.Questions {
		marks := ""
		if q.Marks > 0 {
			marks = strconv.Itoa(q.Marks)
		}
		t.Row(strconv.Itoa(i+1), clip(q.Text, questionWidth), q.Topic, marks)
	}
	return write(w, head+"\n"+t.String())
}

// Bar renders a fixed-width similarity bar for a fraction in [0, 1].
func Bar(fraction float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * fraction)
	filled = min(max(filled, 0), width)

	return lipgloss.NewStyle().Foreground(Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("░", width-filled))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCell
			}
			return Cell
		})
}

func field(label, value string) string {
	return Label.Render(fmt.Sprintf("%-20s", label)) + Body.Render(value) + "\n"
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func write(w io.Writer, s string) error {
	_, err := lipgloss.Fprintln(w, strings.TrimRight(s, "\n"))
	return err
}
