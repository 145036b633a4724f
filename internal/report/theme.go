package report

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/qcheck/internal/similarity"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Table cells
var (
	HeaderCell = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	Cell = lipgloss.NewStyle().
		Foreground(Text).
		Padding(0, 1)

	DimCell = Cell.
		Foreground(TextDim)

	TableBorder = lipgloss.NewStyle().
			Foreground(Border)
)

// categoryColor maps a verdict to its highlight color.
func categoryColor(c similarity.Category) lipgloss.Style {
	switch c {
	case similarity.CategoryDuplicate:
		return Cell.Foreground(Error).Bold(true)
	case similarity.CategoryReframed:
		return Cell.Foreground(Accent)
	default:
		return Cell.Foreground(Success)
	}
}
