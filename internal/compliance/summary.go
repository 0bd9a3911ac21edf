package compliance

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

const (
	DailyOvertimeThreshold  = 8 * 60  // minutes per day before overtime
	WeeklyOvertimeThreshold = 40 * 60 // minutes per week before overtime
)

// SummarizeDay aggregates one day window. Open sessions and breaks are
// measured against now.
func SummarizeDay(day DayWindow, sessions []domain.WorkSession, breaks []domain.BreakPeriod, now time.Time) domain.DailySummary {
	t := dayTotals(day, sessions, breaks, now)

	sum := domain.DailySummary{
		WorkDate:          day.WorkDate(),
		TotalWorkMinutes:  floorMinutes(t.work),
		TotalBreakMinutes: floorMinutes(t.brk),
		SessionCount:      t.sessions,
		BreakCount:        t.breaks,
		MealBreakCount:    t.meals,
	}
	if over := sum.TotalWorkMinutes - DailyOvertimeThreshold; over > 0 {
		sum.OvertimeMinutes = over
	}
	sum.ComplianceNotes = complianceNotes(sum)
	return sum
}

func complianceNotes(sum domain.DailySummary) []string {
	var notes []string

	req := EvaluateBreaks(BreakInput{
		TotalWorkedMinutes: sum.TotalWorkMinutes,
		BreakMinutesTaken:  sum.TotalBreakMinutes,
		MealBreaksTaken:    sum.MealBreakCount,
	})
	if req.RequiresMealBreak {
		notes = append(notes, fmt.Sprintf("Meal break missed: worked %d minutes without a meal break", sum.TotalWorkMinutes))
	}
	if req.EarnedBreakMinutes > 0 {
		notes = append(notes, fmt.Sprintf("%d minutes of earned break time not taken", req.EarnedBreakMinutes))
	}
	if sum.OvertimeMinutes > 0 {
		notes = append(notes, fmt.Sprintf("Overtime: %d minutes beyond %d hours", sum.OvertimeMinutes, DailyOvertimeThreshold/60))
	}
	return notes
}

// SummarizeWeek folds daily summaries into a week. weekStart is the Monday
// work date.
func SummarizeWeek(weekStart string, days []domain.DailySummary) domain.WeeklySummary {
	w := domain.WeeklySummary{WeekStart: weekStart, Days: days}
	for _, d := range days {
		w.TotalWorkMinutes += d.TotalWorkMinutes
		w.TotalBreakMinutes += d.TotalBreakMinutes
		w.DailyOvertimeMinutes += d.OvertimeMinutes
	}
	if over := w.TotalWorkMinutes - WeeklyOvertimeThreshold; over > 0 {
		w.WeeklyOvertimeMinutes = over
	}
	return w
}
