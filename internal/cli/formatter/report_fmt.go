package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

// FormatDaily renders one day's summary.
func FormatDaily(sum *domain.DailySummary) string {
	var b strings.Builder

	b.WriteString(KeyValue("Date", Bold(sum.WorkDate)))
	b.WriteString(KeyValue("Worked", Bold(FormatMinutes(sum.TotalWorkMinutes))))
	b.WriteString(KeyValue("Breaks", fmt.Sprintf("%s %s", FormatMinutes(sum.TotalBreakMinutes),
		Dim(fmt.Sprintf("(%d taken, %d meal)", sum.BreakCount, sum.MealBreakCount)))))
	b.WriteString(KeyValue("Sessions", fmt.Sprintf("%d", sum.SessionCount)))
	if sum.OvertimeMinutes > 0 {
		b.WriteString(KeyValue("Overtime", StyleYellow.Render(FormatMinutes(sum.OvertimeMinutes))))
	}
	b.WriteString(KeyValue("Review", approvalLine(sum.Approval)))

	if len(sum.ComplianceNotes) > 0 {
		b.WriteString("\n")
		for _, note := range sum.ComplianceNotes {
			b.WriteString("  " + StyleRed.Render("▲ "+note) + "\n")
		}
	}

	return RenderBox("Daily Report", b.String())
}

// FormatWeekly renders a Monday-start week as a table with a totals footer.
func FormatWeekly(sum *domain.WeeklySummary) string {
	cols := []Column{
		{Title: "DAY"},
		{Title: "DATE"},
		{Title: "WORKED", Right: true},
		{Title: "BREAKS", Right: true},
		{Title: "OT", Right: true},
		{Title: "REVIEW"},
	}

	rows := make([][]string, 0, len(sum.Days))
	for _, d := range sum.Days {
		rows = append(rows, []string{
			weekday(d.WorkDate),
			d.WorkDate,
			FormatMinutes(d.TotalWorkMinutes),
			FormatMinutes(d.TotalBreakMinutes),
			overtimeCell(d.OvertimeMinutes),
			approvalCell(d),
		})
	}
	footer := []string{
		"Total", "",
		FormatMinutes(sum.TotalWorkMinutes),
		FormatMinutes(sum.TotalBreakMinutes),
		overtimeCell(sum.DailyOvertimeMinutes),
		"",
	}

	var b strings.Builder
	b.WriteString(Header("Week of " + sum.WeekStart))
	b.WriteString("\n\n")
	b.WriteString(RenderTable(cols, rows, footer))
	if sum.WeeklyOvertimeMinutes > 0 {
		b.WriteString("\n")
		b.WriteString(KeyValue("Weekly OT", StyleYellow.Render(FormatMinutes(sum.WeeklyOvertimeMinutes))))
	}
	return b.String()
}

// FormatApproval renders the result of a timesheet review.
func FormatApproval(a *domain.TimesheetApproval, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(ReviewBadge(a.Status))
	b.WriteString(Dim(fmt.Sprintf("  %s for %s", a.WorkDate, a.UserID)))
	b.WriteString("\n")
	b.WriteString(KeyValue("Reviewer", a.ReviewerID))
	b.WriteString(KeyValue("Reviewed", a.ReviewedAt.In(locOrUTC(loc)).Format("2006-01-02 15:04")))
	if a.Notes != "" {
		b.WriteString(KeyValue("Notes", a.Notes))
	}
	b.WriteString(KeyValue("ID", TruncID(a.ID)))
	return b.String()
}

// FormatSweep renders the sessions closed by a sweep.
func FormatSweep(res *app.SweepResult, loc *time.Location) string {
	if len(res.ClosedSessions) == 0 {
		return Dim("No stale sessions.") + "\n"
	}

	rows := make([][]string, 0, len(res.ClosedSessions))
	for _, s := range res.ClosedSessions {
		out := ""
		if s.ClockOutAt != nil {
			out = ClockTime(*s.ClockOutAt, s.ClockInAt, loc)
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			s.UserID,
			s.ClockInAt.In(locOrUTC(loc)).Format("Mon Jan 2 15:04"),
			out,
		})
	}

	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("Closed %d stale session(s), %d open break(s)",
		len(res.ClosedSessions), res.ClosedBreaks)))
	b.WriteString("\n\n")
	b.WriteString(RenderTable(Cols("ID", "USER", "CLOCKED IN", "CLOSED AT"), rows, nil))
	return b.String()
}

func approvalLine(a *domain.TimesheetApproval) string {
	if a == nil {
		return ReviewBadge("")
	}
	line := ReviewBadge(a.Status) + Dim(" by "+a.ReviewerID)
	if a.Notes != "" {
		line += Dim(": " + a.Notes)
	}
	return line
}

func approvalCell(d domain.DailySummary) string {
	if d.Approval == nil {
		if d.SessionCount == 0 {
			return ""
		}
		return ReviewBadge("")
	}
	return ReviewBadge(d.Approval.Status)
}

func overtimeCell(min int) string {
	if min <= 0 {
		return Dim("-")
	}
	return StyleYellow.Render(FormatMinutes(min))
}

func weekday(workDate string) string {
	t, err := time.Parse(domain.WorkDateLayout, workDate)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
