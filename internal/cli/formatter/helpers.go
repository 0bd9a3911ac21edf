package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(content) + "\n"
}

// ClockTime renders t as a wall-clock time in loc, adding the date when t
// falls on a different day than ref.
func ClockTime(t, ref time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	lt, lr := t.In(loc), ref.In(loc)
	if lt.YearDay() != lr.YearDay() || lt.Year() != lr.Year() {
		return lt.Format("Mon Jan 2 15:04")
	}
	return lt.Format("15:04")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into "1h 5m" form.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

const labelWidth = 16

// KeyValue renders an aligned "label  value" line.
func KeyValue(label, value string) string {
	pad := labelWidth - lipgloss.Width(label)
	if pad < 1 {
		pad = 1
	}
	return "  " + Dim(label) + strings.Repeat(" ", pad) + value + "\n"
}
