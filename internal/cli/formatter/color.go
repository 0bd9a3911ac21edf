package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PhaseBadge renders the tracking phase as a colored indicator such as
// "● WORKING".
func PhaseBadge(phase domain.Phase) string {
	switch phase {
	case domain.PhaseWorking:
		return StyleGreen.Render("● WORKING")
	case domain.PhaseOnBreak:
		return StyleYellow.Render("◐ ON BREAK")
	case domain.PhaseIdle:
		return StyleDim.Render("○ CLOCKED OUT")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(phase)))
	}
}

// BreakBadge renders a break type in its own color; lunch stands out
// because it is the meal break.
func BreakBadge(bt domain.BreakType) string {
	if bt == "" {
		return Dim("--")
	}
	if bt.IsMeal() {
		return StylePurple.Render(bt.Label())
	}
	return StyleBlue.Render(bt.Label())
}

// ReviewBadge renders a timesheet review status.
func ReviewBadge(status domain.ReviewStatus) string {
	switch status {
	case domain.ReviewApproved:
		return StyleGreen.Render("✔ Approved")
	case domain.ReviewRejected:
		return StyleRed.Render("✖ Rejected")
	default:
		return Dim("… Pending")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
