package compliance

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// DayWindow is a half-open local calendar day [Start, End).
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WorkDate returns the window's calendar date as YYYY-MM-DD.
func (w DayWindow) WorkDate() string {
	return w.Start.Format(domain.WorkDateLayout)
}

// DayWindowFor returns the local day containing t in loc. The end is computed
// with AddDate so days around DST changes are 23 or 25 hours long.
func DayWindowFor(t time.Time, loc *time.Location) DayWindow {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// ParseWorkDate parses a YYYY-MM-DD date into its day window in loc.
func ParseWorkDate(s string, loc *time.Location) (DayWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(domain.WorkDateLayout, s, loc)
	if err != nil {
		return DayWindow{}, fmt.Errorf("%q: %w", s, domain.ErrInvalidDate)
	}
	return DayWindowFor(d, loc), nil
}

// WeekStart returns the Monday day window of the week containing t.
func WeekStart(t time.Time, loc *time.Location) DayWindow {
	day := DayWindowFor(t, loc)
	offset := (int(day.Start.Weekday()) + 6) % 7
	return DayWindowFor(day.Start.AddDate(0, 0, -offset), loc)
}

// WeekDays returns the seven day windows of the Monday-start week containing t.
func WeekDays(t time.Time, loc *time.Location) []DayWindow {
	monday := WeekStart(t, loc)
	days := make([]DayWindow, 7)
	for i := range days {
		days[i] = DayWindowFor(monday.Start.AddDate(0, 0, i), loc)
	}
	return days
}
