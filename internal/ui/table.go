package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Align positions cell text within its column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
	Align Align
}

// Row is a slice of plain cell values. Styling is applied by Render.
type Row []string

// Table renders a fixed-width lipgloss table.
type Table struct {
	Columns []Column
	Rows    []Row
	SelIdx  int // -1 = none
}

// NewTable creates an empty table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, SelIdx: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// fit pads or truncates s to exactly width runes. Truncated text ends in "…".
func fit(s string, width int, align Align) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		if width <= 1 {
			return string([]rune(s)[:width])
		}
		return string([]rune(s)[:width-1]) + "…"
	}
	gap := strings.Repeat(" ", width-n)
	if align == AlignRight {
		return gap + s
	}
	return s + gap
}

// Render returns the table as a string. Cells are padded before styling so
// ANSI sequences never count toward column width.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)

	line := func(render func(i int, c Column) string) {
		parts := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			parts[i] = render(i, c)
		}
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteString("\n")
	}

	line(func(_ int, c Column) string { return headerStyle.Render(fit(c.Title, c.Width, c.Align)) })
	line(func(_ int, c Column) string { return StyleMeta.Render(strings.Repeat("-", c.Width)) })

	for r, row := range t.Rows {
		style := cellStyle
		if r == t.SelIdx {
			style = StyleSelected
		}
		line(func(i int, c Column) string {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			return style.Render(fit(val, c.Width, c.Align))
		})
	}

	return sb.String()
}

// KeyValueBlock renders key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-16s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(sb.String())
}
