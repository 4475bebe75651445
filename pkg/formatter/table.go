package formatter

import (
	"strings"
)

type Table struct {
	Headers []string
	Rows    [][]string
}

// Creates a new table with the given headers
func NewTable(headers []string) *Table {
	return &Table{
		Headers: headers,
		Rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

// Returns the string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.columnWidths()

	var sb strings.Builder

	writeBorder(&sb, widths)
	sb.WriteString("\n")

	sb.WriteString("| ")
	for i, h := range t.Headers {
		sb.WriteString(h)
		sb.WriteString(strings.Repeat(" ", widths[i]-len(h)))
		sb.WriteString(" | ")
	}
	sb.WriteString("\n")

	writeBorder(&sb, widths)
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("| ")
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(cell)
				sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
				sb.WriteString(" | ")
			}
		}
		sb.WriteString("\n")
	}

	writeBorder(&sb, widths)

	return sb.String()
}

// writeBorder writes a horizontal border to the string builder
func writeBorder(sb *strings.Builder, widths []int) {
	sb.WriteString("+")
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
}
