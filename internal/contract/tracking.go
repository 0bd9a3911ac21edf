// Package contract defines the JSON shapes shiftclock exchanges with API
// clients and prints with --json.
package contract

import (
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

type ClockRequest struct {
	Notes string `json:"notes,omitempty"`
}

type StartBreakRequest struct {
	Type string `json:"type"`
}

type WorkSession struct {
	ID         string     `json:"id"`
	ClockInAt  time.Time  `json:"clock_in_at"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	AutoClosed bool       `json:"auto_closed"`
}

type BreakPeriod struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Type      string     `json:"type"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type SessionState struct {
	Phase                string     `json:"phase"`
	IsActive             bool       `json:"is_active"`
	IsOnBreak            bool       `json:"is_on_break"`
	BreakType            string     `json:"break_type,omitempty"`
	ClockInAt            *time.Time `json:"clock_in_at,omitempty"`
	BreakStartedAt       *time.Time `json:"break_started_at,omitempty"`
	WorkElapsedMinutes   int        `json:"work_elapsed_minutes"`
	BreakElapsedMinutes  int        `json:"break_elapsed_minutes"`
	TotalWorkedToday     int        `json:"total_worked_today"`
	TotalBreakToday      int        `json:"total_break_today"`
	MealBreaksTakenToday int        `json:"meal_breaks_taken_today"`
}

type BreakRequirements struct {
	RestBreaks         int    `json:"rest_breaks"`
	MealBreaks         int    `json:"meal_breaks"`
	EarnedBreakMinutes int    `json:"earned_break_minutes"`
	RequiresMealBreak  bool   `json:"requires_meal_break"`
	CanTakeBreak       bool   `json:"can_take_break"`
	SuggestedBreakType string `json:"suggested_break_type,omitempty"`
	NextBreakInMinutes int    `json:"next_break_in_minutes"`
	ComplianceMessage  string `json:"compliance_message"`
}

// Tracking is the response to every tracking endpoint.
type Tracking struct {
	AsOf          time.Time         `json:"as_of"`
	State         SessionState      `json:"state"`
	Requirements  BreakRequirements `json:"requirements"`
	Session       *WorkSession      `json:"session,omitempty"`
	Break         *BreakPeriod      `json:"break,omitempty"`
	AllowedEvents []string          `json:"allowed_events"`
}

// FromSnapshot maps a tracking snapshot to its wire form.
func FromSnapshot(s *app.TrackingSnapshot) Tracking {
	out := Tracking{
		AsOf: s.AsOf,
		State: SessionState{
			Phase:                string(s.State.Phase),
			IsActive:             s.State.IsActive,
			IsOnBreak:            s.State.IsOnBreak,
			BreakType:            string(s.State.BreakType),
			ClockInAt:            s.State.ClockInAt,
			BreakStartedAt:       s.State.BreakStartedAt,
			WorkElapsedMinutes:   s.State.WorkElapsedMinutes,
			BreakElapsedMinutes:  s.State.BreakElapsedMinutes,
			TotalWorkedToday:     s.State.TotalWorkedToday,
			TotalBreakToday:      s.State.TotalBreakToday,
			MealBreaksTakenToday: s.State.MealBreaksTakenToday,
		},
		Requirements:  fromRequirements(s.Requirements),
		AllowedEvents: make([]string, 0, len(s.AllowedEvents)),
	}
	for _, e := range s.AllowedEvents {
		if s.Allows(e) {
			out.AllowedEvents = append(out.AllowedEvents, string(e))
		}
	}
	if s.Session != nil {
		ws := fromSession(*s.Session)
		out.Session = &ws
	}
	if s.Break != nil {
		b := fromBreak(*s.Break)
		out.Break = &b
	}
	return out
}

func fromRequirements(r domain.BreakRequirements) BreakRequirements {
	return BreakRequirements{
		RestBreaks:         r.RestBreaks,
		MealBreaks:         r.MealBreaks,
		EarnedBreakMinutes: r.EarnedBreakMinutes,
		RequiresMealBreak:  r.RequiresMealBreak,
		CanTakeBreak:       r.CanTakeBreak,
		SuggestedBreakType: string(r.SuggestedBreakType),
		NextBreakInMinutes: r.NextBreakInMinutes,
		ComplianceMessage:  r.ComplianceMessage,
	}
}

func fromSession(ws domain.WorkSession) WorkSession {
	return WorkSession{
		ID:         ws.ID,
		ClockInAt:  ws.ClockInAt,
		ClockOutAt: ws.ClockOutAt,
		Notes:      ws.Notes,
		AutoClosed: ws.AutoClosed,
	}
}

func fromBreak(b domain.BreakPeriod) BreakPeriod {
	return BreakPeriod{
		ID:        b.ID,
		SessionID: b.SessionID,
		Type:      string(b.Type),
		StartedAt: b.StartedAt,
		EndedAt:   b.EndedAt,
	}
}
