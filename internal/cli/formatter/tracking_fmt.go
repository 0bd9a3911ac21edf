package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/compliance"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

const breakProgressWidth = 20

// eventHints maps events to the command that triggers them.
var eventHints = []struct {
	event domain.Event
	hint  string
}{
	{domain.EventClockIn, "in"},
	{domain.EventStartBreak, "break start"},
	{domain.EventResume, "break resume"},
	{domain.EventClockOut, "out"},
}

// FormatTracking renders a tracking snapshot as a status box.
func FormatTracking(snap *app.TrackingSnapshot, loc *time.Location) string {
	var b strings.Builder
	st := snap.State
	req := snap.Requirements

	b.WriteString(PhaseBadge(st.Phase))
	b.WriteString("\n\n")

	if st.ClockInAt != nil {
		b.WriteString(KeyValue("Clocked in", ClockTime(*st.ClockInAt, snap.AsOf, loc)))
		b.WriteString(KeyValue("Session", FormatMinutes(st.WorkElapsedMinutes)+Dim(" worked")))
	}
	if st.IsOnBreak && st.BreakStartedAt != nil {
		b.WriteString(KeyValue("On break",
			fmt.Sprintf("%s %s %s", BreakBadge(st.BreakType), FormatMinutes(st.BreakElapsedMinutes),
				Dim("since "+ClockTime(*st.BreakStartedAt, snap.AsOf, loc)))))
	}
	if snap.Session != nil && snap.Session.Notes != "" {
		b.WriteString(KeyValue("Notes", snap.Session.Notes))
	}

	b.WriteString("\n")
	b.WriteString(Header("Today"))
	b.WriteString("\n")
	b.WriteString(KeyValue("Worked", Bold(FormatMinutes(st.TotalWorkedToday))))
	b.WriteString(KeyValue("Breaks", FormatMinutes(st.TotalBreakToday)))
	b.WriteString(KeyValue("Meal breaks", fmt.Sprintf("%d", st.MealBreaksTakenToday)))

	b.WriteString("\n")
	b.WriteString(Header("Breaks"))
	b.WriteString("\n")
	b.WriteString(FormatRequirements(req, st.TotalWorkedToday))

	if hints := actionHints(snap); len(hints) > 0 {
		b.WriteString("\n")
		b.WriteString(Dim("Next: shiftclock " + strings.Join(hints, " | shiftclock ")))
		b.WriteString("\n")
	}

	return RenderBox("Shift", b.String())
}

// FormatRequirements renders earned breaks, the meal-break warning and
// progress toward the first break.
func FormatRequirements(req domain.BreakRequirements, worked int) string {
	var b strings.Builder

	b.WriteString(KeyValue("Earned", fmt.Sprintf("%d rest, %d meal", req.RestBreaks, req.MealBreaks)))
	if req.EarnedBreakMinutes > 0 {
		b.WriteString(KeyValue("Owed", StyleYellow.Render(FormatMinutes(req.EarnedBreakMinutes))))
	}
	if !req.CanTakeBreak && req.NextBreakInMinutes > 0 {
		b.WriteString(KeyValue("First break", RenderProgress(worked, compliance.MinWorkBeforeBreak, breakProgressWidth)))
	}
	if req.SuggestedBreakType != "" && req.CanTakeBreak {
		b.WriteString(KeyValue("Suggested", BreakBadge(req.SuggestedBreakType)))
	}

	msg := req.ComplianceMessage
	switch {
	case req.RequiresMealBreak:
		b.WriteString("\n  " + StyleRed.Render("▲ "+msg) + "\n")
	case msg != "":
		b.WriteString("\n  " + Dim(msg) + "\n")
	}
	return b.String()
}

// FormatAction renders the one-line confirmation printed after a tracking
// command succeeds.
func FormatAction(event domain.Event, snap *app.TrackingSnapshot, loc *time.Location) string {
	at := ClockTime(snap.AsOf, snap.AsOf, loc)
	switch event {
	case domain.EventClockIn:
		return StyleGreen.Render("✔ Clocked in") + Dim(" at "+at) + "\n"
	case domain.EventClockOut:
		return StyleGreen.Render("✔ Clocked out") + Dim(" at "+at) +
			Dim(fmt.Sprintf(" · %s worked today", FormatMinutes(snap.State.TotalWorkedToday))) + "\n"
	case domain.EventStartBreak:
		return StyleYellow.Render("◐ "+snap.State.BreakType.Label()+" break started") + Dim(" at "+at) + "\n"
	case domain.EventResume:
		return StyleGreen.Render("✔ Back to work") + Dim(" at "+at) + "\n"
	default:
		return ""
	}
}

func actionHints(snap *app.TrackingSnapshot) []string {
	var out []string
	for _, eh := range eventHints {
		if snap.Allows(eh.event) {
			out = append(out, eh.hint)
		}
	}
	return out
}
