package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols with consistent appearance.
const (
	SuccessSymbol = "✓"
	ErrorSymbol   = "✗"
	InfoSymbol    = "ℹ"
	WarningSymbol = "⚠"
	BulletSymbol  = "•"
	ArrowSymbol   = "→"
)

// Output is where the Print functions write; PrintError writes to ErrorOutput.
var (
	Output      io.Writer = os.Stdout
	ErrorOutput io.Writer = os.Stderr
)

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Fprintln(Output, lipgloss.NewStyle().
		Foreground(lipgloss.Color(SuccessColor)).
		Bold(true).
		Render(SuccessSymbol+" "+message))
}

// PrintError prints an error message in a box.
func PrintError(message string) {
	errorBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ErrorColor)).
		Padding(0, 1).
		Render(ErrorStyle.Bold(true).Render(ErrorSymbol + " Error: " + message))

	fmt.Fprintln(ErrorOutput, errorBox)
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Fprintln(Output, WarningStyle.Bold(true).Render(WarningSymbol+" "+message))
}

// PrintInfo prints a label and its value.
func PrintInfo(label, value string) {
	fmt.Fprintf(Output, "%s %s\n",
		DimStyle.Bold(true).Render(label+":"),
		InfoStyle.Render(value))
}

// PrintMetadata prints metadata with styled label and value.
func PrintMetadata(label, value string) {
	if value == "" {
		fmt.Fprintf(Output, "%s %s\n",
			InfoStyle.Render(InfoSymbol),
			DimStyle.Bold(true).Render(label))
		return
	}
	fmt.Fprintf(Output, "%s %s %s\n",
		InfoStyle.Render(InfoSymbol),
		DimStyle.Bold(true).Render(label),
		InfoStyle.Render(value))
}

// PrintSection prints a section title.
func PrintSection(title string) {
	fmt.Fprintln(Output, SectionStyle.Render(title))
}

// PrintList prints items as a bulleted list.
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Output, "  %s %s\n", DimStyle.Render(BulletSymbol), item)
	}
}

// PrintEmptyState shows a message when no data is available.
func PrintEmptyState(message string) {
	fmt.Fprintln(Output, DimStyle.Italic(true).Render(message))
}

// StyleStatusValue applies appropriate styling based on status value.
func StyleStatusValue(status string) string {
	switch strings.ToLower(status) {
	case "found", "enabled", "ok":
		return SuccessStyle.Render(SuccessSymbol + " " + status)
	case "missing", "failed":
		return ErrorStyle.Render(ErrorSymbol + " " + status)
	case "optional":
		return WarningStyle.Render(WarningSymbol + " " + status)
	case "disabled":
		return DisabledStyle.Render("⊘ " + status)
	default:
		return status
	}
}

// Table represents a formatted table with headers and rows.
type Table struct {
	Headers     []string
	Rows        [][]string
	ColumnWidth []int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	columnWidth := make([]int, len(headers))
	for i, h := range headers {
		columnWidth[i] = len(h) + 4
	}
	return &Table{
		Headers:     headers,
		Rows:        [][]string{},
		ColumnWidth: columnWidth,
	}
}

// AddRow adds a new row to the table.
func (t *Table) AddRow(values ...string) {
	if len(values) != len(t.Headers) {
		panic(fmt.Sprintf("Row has %d values, expected %d", len(values), len(t.Headers)))
	}

	for i, v := range values {
		if len(v)+4 > t.ColumnWidth[i] {
			t.ColumnWidth[i] = len(v) + 4
		}
	}

	t.Rows = append(t.Rows, values)
}

// RenderTable renders the table without a border.
func RenderTable(table *Table) string {
	rowFormat := ""
	for i, width := range table.ColumnWidth {
		rowFormat += fmt.Sprintf("%%-%ds", width)
		if i < len(table.ColumnWidth)-1 {
			rowFormat += " "
		}
	}

	headerText := strings.TrimRight(fmt.Sprintf(rowFormat, toInterfaceSlice(table.Headers)...), " ")

	var tableRows []string
	tableRows = append(tableRows, TableHeaderStyle.Render(headerText))
	tableRows = append(tableRows, DimStyle.Render(strings.Repeat("─", len(headerText))))

	for i, row := range table.Rows {
		style := TableRowStyle
		if i%2 == 1 {
			style = style.Background(lipgloss.Color(AlternatingRowDark))
		}
		line := strings.TrimRight(fmt.Sprintf(rowFormat, toInterfaceSlice(row)...), " ")
		tableRows = append(tableRows, style.Render(line))
	}

	return fmt.Sprintf("\n%s\n", lipgloss.JoinVertical(lipgloss.Left, tableRows...))
}

// Helper to convert string slice to interface slice for fmt.Sprintf.
func toInterfaceSlice(ss []string) []interface{} {
	is := make([]interface{}, len(ss))
	for i, s := range ss {
		is[i] = s
	}
	return is
}
