package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/cli/formatter"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const watchInterval = time.Second

type watchKeyMap struct {
	ClockIn  key.Binding
	ClockOut key.Binding
	Break    key.Binding
	Resume   key.Binding
	Quit     key.Binding
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		ClockIn:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "clock in")),
		ClockOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "clock out")),
		Break:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "break")),
		Resume:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindings pairs each action key with the event it triggers.
func (k watchKeyMap) bindings() []struct {
	binding key.Binding
	event   domain.Event
} {
	return []struct {
		binding key.Binding
		event   domain.Event
	}{
		{k.ClockIn, domain.EventClockIn},
		{k.ClockOut, domain.EventClockOut},
		{k.Break, domain.EventStartBreak},
		{k.Resume, domain.EventResume},
	}
}

type watchTickMsg time.Time

// watchSnapshotMsg carries the result of a refresh (empty event) or an action.
type watchSnapshotMsg struct {
	event domain.Event
	snap  *app.TrackingSnapshot
	err   error
}

// watchModel is a live status view: it re-projects the snapshot every tick
// and maps single keys to tracking actions.
type watchModel struct {
	ctx      context.Context
	tracking app.TrackingUseCase
	actor    app.Actor
	loc      *time.Location
	keys     watchKeyMap
	interval time.Duration

	snap     *app.TrackingSnapshot
	notice   string
	err      error
	quitting bool
}

func newWatchModel(ctx context.Context, tracking app.TrackingUseCase, actor app.Actor, loc *time.Location) watchModel {
	return watchModel{
		ctx:      ctx,
		tracking: tracking,
		actor:    actor,
		loc:      loc,
		keys:     defaultWatchKeys(),
		interval: watchInterval,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case watchSnapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snap = msg.snap
		if msg.event != "" {
			m.notice = strings.TrimSpace(formatter.FormatAction(msg.event, msg.snap, m.loc))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		for _, kb := range m.keys.bindings() {
			if key.Matches(msg, kb.binding) {
				return m.act(kb.event)
			}
		}
	}
	return m, nil
}

// act runs event unless the current snapshot already rules it out.
func (m watchModel) act(event domain.Event) (tea.Model, tea.Cmd) {
	if m.snap != nil && !m.snap.Allows(event) {
		m.err = nil
		m.notice = unavailableNotice(m.snap, event)
		return m, nil
	}

	tracking, ctx, actor := m.tracking, m.ctx, m.actor
	breakType := domain.BreakCoffee
	if m.snap != nil && m.snap.Requirements.SuggestedBreakType != "" {
		breakType = m.snap.Requirements.SuggestedBreakType
	}

	return m, func() tea.Msg {
		var snap *app.TrackingSnapshot
		var err error
		switch event {
		case domain.EventClockIn:
			snap, err = tracking.ClockIn(ctx, actor, "")
		case domain.EventClockOut:
			snap, err = tracking.ClockOut(ctx, actor, "")
		case domain.EventStartBreak:
			snap, err = tracking.StartBreak(ctx, actor, breakType)
		case domain.EventResume:
			snap, err = tracking.ResumeWork(ctx, actor)
		}
		return watchSnapshotMsg{event: event, snap: snap, err: err}
	}
}

func (m watchModel) refresh() tea.Cmd {
	tracking, ctx, actor := m.tracking, m.ctx, m.actor
	return func() tea.Msg {
		snap, err := tracking.Snapshot(ctx, actor)
		return watchSnapshotMsg{snap: snap, err: err}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.snap != nil {
		b.WriteString(formatter.FormatTracking(m.snap, m.loc))
	} else {
		b.WriteString(formatter.Dim("Loading…") + "\n")
	}

	switch {
	case m.err != nil:
		e := contract.NewError(m.err)
		b.WriteString("\n" + formatter.StyleRed.Render("✖ "+e.Message) + formatter.Dim("  "+e.Action) + "\n")
	case m.notice != "":
		b.WriteString("\n" + m.notice + "\n")
	}

	b.WriteString("\n" + m.helpLine() + "\n")
	return b.String()
}

func (m watchModel) helpLine() string {
	bindings := []key.Binding{m.keys.ClockIn, m.keys.ClockOut, m.keys.Break, m.keys.Resume, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return formatter.Dim(strings.Join(parts, " · "))
}

func unavailableNotice(snap *app.TrackingSnapshot, event domain.Event) string {
	msg := fmt.Sprintf("Can't %s while %s", eventVerb(event), phaseNoun(snap.State.Phase))
	if event == domain.EventStartBreak && snap.State.Phase == domain.PhaseWorking && snap.Requirements.NextBreakInMinutes > 0 {
		msg = fmt.Sprintf("First break available in %s", formatter.FormatMinutes(snap.Requirements.NextBreakInMinutes))
	}
	return formatter.StyleYellow.Render(msg)
}

func eventVerb(e domain.Event) string {
	switch e {
	case domain.EventClockIn:
		return "clock in"
	case domain.EventClockOut:
		return "clock out"
	case domain.EventStartBreak:
		return "start a break"
	default:
		return "resume"
	}
}

func phaseNoun(p domain.Phase) string {
	switch p {
	case domain.PhaseWorking:
		return "working"
	case domain.PhaseOnBreak:
		return "on break"
	default:
		return "clocked out"
	}
}

func newWatchCmd(a *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of the current shift with single-key actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			if !a.interactive() {
				return errors.New("watch needs a terminal; use `shiftclock status` instead")
			}

			m := newWatchModel(cmd.Context(), a.Tracking, actor, a.location())
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}
}
