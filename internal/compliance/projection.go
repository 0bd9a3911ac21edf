package compliance

import (
	"sort"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// ProjectionInput is the persisted history the state projection reads: every
// session overlapping the day window (including an open one that began
// earlier) and the breaks belonging to those sessions.
type ProjectionInput struct {
	Now      time.Time
	Day      DayWindow
	Sessions []domain.WorkSession
	Breaks   []domain.BreakPeriod
}

// Project derives the worker's SessionState from stored rows. It never
// mutates its input, so it is safe to call on every tick.
func Project(in ProjectionInput) domain.SessionState {
	state := domain.SessionState{Phase: domain.PhaseIdle}

	totals := dayTotals(in.Day, in.Sessions, in.Breaks, in.Now)
	state.TotalWorkedToday = floorMinutes(totals.work)
	state.TotalBreakToday = floorMinutes(totals.brk)
	state.MealBreaksTakenToday = totals.meals

	open := OpenSession(in.Sessions)
	if open == nil {
		return state
	}

	clockIn := open.ClockInAt
	state.Phase = domain.PhaseWorking
	state.IsActive = true
	state.SessionID = open.ID
	state.ClockInAt = &clockIn

	sessionBreaks := breaksFor(in.Breaks, open.ID)
	worked := span(open.ClockInAt, in.Now) - breakDuration(sessionBreaks, in.Now)
	state.WorkElapsedMinutes = floorMinutes(worked)

	if b := OpenBreak(sessionBreaks); b != nil {
		started := b.StartedAt
		state.Phase = domain.PhaseOnBreak
		state.IsOnBreak = true
		state.BreakType = b.Type
		state.BreakID = b.ID
		state.BreakStartedAt = &started
		state.BreakElapsedMinutes = ElapsedMinutes(b.StartedAt, in.Now)
	}

	return state
}

// OpenSession returns the most recently started open session, or nil.
func OpenSession(sessions []domain.WorkSession) *domain.WorkSession {
	var open *domain.WorkSession
	for i := range sessions {
		s := &sessions[i]
		if !s.IsOpen() {
			continue
		}
		if open == nil || s.ClockInAt.After(open.ClockInAt) {
			open = s
		}
	}
	return open
}

// OpenBreak returns the most recently started open break, or nil.
func OpenBreak(breaks []domain.BreakPeriod) *domain.BreakPeriod {
	var open *domain.BreakPeriod
	for i := range breaks {
		b := &breaks[i]
		if !b.IsOpen() {
			continue
		}
		if open == nil || b.StartedAt.After(open.StartedAt) {
			open = b
		}
	}
	return open
}

type totals struct {
	work     time.Duration
	brk      time.Duration
	sessions int
	breaks   int
	meals    int
}

// dayTotals clips every session and break to the day window. Breaks are
// additionally clipped to their session so a stray open break cannot count
// beyond clock-out.
func dayTotals(day DayWindow, sessions []domain.WorkSession, breaks []domain.BreakPeriod, now time.Time) totals {
	var t totals
	for i := range sessions {
		s := &sessions[i]
		end := s.EndOrNow(now)
		sessionSpan := overlap(s.ClockInAt, end, day.Start, day.End)
		if sessionSpan > 0 || day.Contains(s.ClockInAt) {
			t.sessions++
		}
		t.work += sessionSpan

		for _, b := range breaksFor(breaks, s.ID) {
			bEnd := b.EndOrNow(now)
			if bEnd.After(end) {
				bEnd = end
			}
			d := overlap(b.StartedAt, bEnd, day.Start, day.End)
			t.brk += d
			t.work -= d
			if day.Contains(b.StartedAt) {
				t.breaks++
				if b.Type.IsMeal() {
					t.meals++
				}
			}
		}
	}
	if t.work < 0 {
		t.work = 0
	}
	return t
}

func breaksFor(breaks []domain.BreakPeriod, sessionID string) []domain.BreakPeriod {
	var out []domain.BreakPeriod
	for _, b := range breaks {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}
