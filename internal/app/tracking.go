package app

import (
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// TrackingSnapshot is what every tracking use case returns: the projected
// state, the break requirements derived from it, and the open rows if any.
type TrackingSnapshot struct {
	AsOf          time.Time
	State         domain.SessionState
	Requirements  domain.BreakRequirements
	Session       *domain.WorkSession
	Break         *domain.BreakPeriod
	AllowedEvents []domain.Event
}

// Allows reports whether event is permitted from the snapshot's phase. Clients
// use it to disable actions up front; the controller still enforces guards.
func (s *TrackingSnapshot) Allows(event domain.Event) bool {
	if event == domain.EventStartBreak && !s.Requirements.CanTakeBreak {
		return false
	}
	for _, e := range s.AllowedEvents {
		if e == event {
			return true
		}
	}
	return false
}

// ReviewRequest is a manager's decision on one worker's day.
type ReviewRequest struct {
	SubjectUserID string
	WorkDate      string
	Status        domain.ReviewStatus
	Notes         string
}

// SweepResult reports what a stale-session sweep closed.
type SweepResult struct {
	ClosedSessions []domain.WorkSession
	ClosedBreaks   int
}
