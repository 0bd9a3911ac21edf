package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/cli/formatter"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// shiftclockHuhTheme returns a huh theme matching the formatter palette.
func shiftclockHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// breakTypeForm asks which kind of break to start. The suggested type is
// preselected.
func breakTypeForm(result *domain.BreakType, suggested domain.BreakType) *huh.Form {
	if suggested != "" {
		*result = suggested
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.BreakType]().
				Title("Break type").
				Options(
					huh.NewOption("Coffee", domain.BreakCoffee),
					huh.NewOption("Rest", domain.BreakRest),
					huh.NewOption("Lunch (meal break)", domain.BreakLunch),
				).
				Value(result),
		),
	).WithTheme(shiftclockHuhTheme()).WithShowHelp(false)
}

// reasonForm asks for the rejection reason. Blank input is refused.
func reasonForm(result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reason for rejection").
				Placeholder("e.g. missing lunch break").
				Value(result).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("a reason is required")
					}
					return nil
				}),
		),
	).WithTheme(shiftclockHuhTheme()).WithShowHelp(false)
}

// pickBreakType resolves the break type for `break start`: the argument if
// given, otherwise an interactive prompt on a terminal.
func (a *App) pickBreakType(ctx context.Context, actor app.Actor, args []string) (domain.BreakType, error) {
	if len(args) > 0 {
		return domain.ParseBreakType(args[0])
	}
	if !a.interactive() {
		return "", fmt.Errorf("%w: pass coffee, rest or lunch", domain.ErrInvalidBreakType)
	}
	if a.PickBreakType != nil {
		return a.PickBreakType(ctx)
	}

	var suggested domain.BreakType
	if a.Tracking != nil {
		// Best effort: the prompt still works without a suggestion.
		if snap, err := a.Tracking.Snapshot(ctx, actor); err == nil {
			suggested = snap.Requirements.SuggestedBreakType
		}
	}
	var bt domain.BreakType
	if err := breakTypeForm(&bt, suggested).RunWithContext(ctx); err != nil {
		return "", err
	}
	return bt, nil
}

// rejectionReason returns notes, prompting for them on a terminal when empty.
func (a *App) rejectionReason(ctx context.Context, notes string) (string, error) {
	if notes != "" || !a.interactive() {
		return notes, nil
	}
	if a.PromptReason != nil {
		return a.PromptReason(ctx)
	}
	var reason string
	if err := reasonForm(&reason).RunWithContext(ctx); err != nil {
		return "", err
	}
	return reason, nil
}
