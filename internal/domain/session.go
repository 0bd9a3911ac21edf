package domain

import (
	"fmt"
	"time"
)

// WorkSession is one continuous clock-in to clock-out period.
type WorkSession struct {
	ID             string
	UserID         string
	OrganizationID string
	ClockInAt      time.Time
	ClockOutAt     *time.Time
	Notes          string
	AutoClosed     bool
	CreatedAt      time.Time
}

// IsOpen reports whether the session has not been clocked out.
func (s *WorkSession) IsOpen() bool {
	return s.ClockOutAt == nil
}

// Close sets the clock-out time and appends notes. The clock-out instant may
// not precede the clock-in instant.
func (s *WorkSession) Close(at time.Time, notes string) error {
	if !s.IsOpen() {
		return fmt.Errorf("work session %s: %w", s.ID, ErrNotActive)
	}
	if at.Before(s.ClockInAt) {
		return fmt.Errorf("clock-out %s precedes clock-in %s: %w",
			at.Format(time.RFC3339), s.ClockInAt.Format(time.RFC3339), ErrInvalidTransition)
	}
	s.ClockOutAt = &at
	s.Notes = AppendNote(s.Notes, notes)
	return nil
}

// EndOrNow returns ClockOutAt, or now while the session is open.
func (s *WorkSession) EndOrNow(now time.Time) time.Time {
	if s.ClockOutAt != nil {
		return *s.ClockOutAt
	}
	return now
}

// BreakPeriod is one contiguous interval inside a WorkSession during which
// the worker is not working.
type BreakPeriod struct {
	ID        string
	SessionID string
	Type      BreakType
	StartedAt time.Time
	EndedAt   *time.Time
}

// IsOpen reports whether the break is still in progress.
func (b *BreakPeriod) IsOpen() bool {
	return b.EndedAt == nil
}

// End closes the break. The end instant may not precede the start.
func (b *BreakPeriod) End(at time.Time) error {
	if !b.IsOpen() {
		return fmt.Errorf("break %s: %w", b.ID, ErrNoActiveBreak)
	}
	if at.Before(b.StartedAt) {
		return fmt.Errorf("break end precedes start: %w", ErrInvalidTransition)
	}
	b.EndedAt = &at
	return nil
}

// EndOrNow returns EndedAt, or now while the break is open.
func (b *BreakPeriod) EndOrNow(now time.Time) time.Time {
	if b.EndedAt != nil {
		return *b.EndedAt
	}
	return now
}

// SessionState is the derived view of a worker's tracking state. It is never
// persisted; it is projected from WorkSession and BreakPeriod rows.
type SessionState struct {
	Phase          Phase
	IsActive       bool
	IsOnBreak      bool
	BreakType      BreakType
	SessionID      string
	BreakID        string
	ClockInAt      *time.Time
	BreakStartedAt *time.Time

	WorkElapsedMinutes  int
	BreakElapsedMinutes int

	TotalWorkedToday     int
	TotalBreakToday      int
	MealBreaksTakenToday int
}

// BreakRequirements is the compliance evaluation for the current paid day.
type BreakRequirements struct {
	RestBreaks         int
	MealBreaks         int
	EarnedBreakMinutes int
	RequiresMealBreak  bool
	CanTakeBreak       bool
	SuggestedBreakType BreakType
	NextBreakInMinutes int
	ComplianceMessage  string
}

// AppendNote joins note onto existing with a separator, ignoring blanks.
func AppendNote(existing, note string) string {
	switch {
	case note == "":
		return existing
	case existing == "":
		return note
	default:
		return existing + "; " + note
	}
}
