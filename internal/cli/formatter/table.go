package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Column describes one table column. Numeric columns align right.
type Column struct {
	Title string
	Right bool
}

// Cols builds left-aligned columns from titles.
func Cols(titles ...string) []Column {
	out := make([]Column, len(titles))
	for i, t := range titles {
		out[i] = Column{Title: t}
	}
	return out
}

// RenderTable renders an aligned table with a header separator line and an
// optional footer row below a second separator. Widths are measured on the
// visible text so styled cells line up.
func RenderTable(cols []Column, rows [][]string, footer []string) string {
	if len(cols) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	measure := func(row []string) {
		for i := 0; i < len(cols) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range rows {
		measure(row)
	}
	measure(footer)

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i, c := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if style != nil {
				cell = style(cell)
			}
			if c.Right {
				b.WriteString(pad + cell)
			} else {
				b.WriteString(cell)
				if i < len(cols)-1 {
					b.WriteString(pad)
				}
			}
			if i < len(cols)-1 {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}
	separator := func() {
		for i, w := range widths {
			b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	writeRow(titles, func(s string) string { return StyleHeader.Render(s) })
	separator()
	for _, row := range rows {
		writeRow(row, nil)
	}
	if footer != nil {
		separator()
		writeRow(footer, func(s string) string { return StyleBold.Render(s) })
	}
	return b.String()
}
