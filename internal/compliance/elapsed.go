package compliance

import (
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// ElapsedMinutes returns whole minutes between start and now, floor-rounded.
// A negative span (clock skew) is clamped to zero.
func ElapsedMinutes(start, now time.Time) int {
	return floorMinutes(span(start, now))
}

// BreakMinutes sums closed break intervals plus any open interval measured
// against now. Durations are summed before flooring so that several short
// breaks are not each rounded down.
func BreakMinutes(breaks []domain.BreakPeriod, now time.Time) int {
	return floorMinutes(breakDuration(breaks, now))
}

// OverlapMinutes returns whole minutes of [start, end) that fall inside
// [windowStart, windowEnd).
func OverlapMinutes(start, end, windowStart, windowEnd time.Time) int {
	return floorMinutes(overlap(start, end, windowStart, windowEnd))
}

func span(start, end time.Time) time.Duration {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

func overlap(start, end, windowStart, windowEnd time.Time) time.Duration {
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	return span(start, end)
}

func breakDuration(breaks []domain.BreakPeriod, now time.Time) time.Duration {
	var total time.Duration
	for i := range breaks {
		total += span(breaks[i].StartedAt, breaks[i].EndOrNow(now))
	}
	return total
}

func floorMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
