package contract

import (
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

type ReviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type Approval struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	WorkDate   string    `json:"work_date"`
	Status     string    `json:"status"`
	ReviewerID string    `json:"reviewer_id"`
	Notes      string    `json:"notes,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type DailySummary struct {
	WorkDate          string    `json:"work_date"`
	TotalWorkMinutes  int       `json:"total_work_minutes"`
	TotalBreakMinutes int       `json:"total_break_minutes"`
	SessionCount      int       `json:"session_count"`
	BreakCount        int       `json:"break_count"`
	MealBreakCount    int       `json:"meal_break_count"`
	OvertimeMinutes   int       `json:"overtime_minutes"`
	ComplianceNotes   []string  `json:"compliance_notes"`
	Approval          *Approval `json:"approval,omitempty"`
}

type WeeklySummary struct {
	WeekStart             string         `json:"week_start"`
	Days                  []DailySummary `json:"days"`
	TotalWorkMinutes      int            `json:"total_work_minutes"`
	TotalBreakMinutes     int            `json:"total_break_minutes"`
	DailyOvertimeMinutes  int            `json:"daily_overtime_minutes"`
	WeeklyOvertimeMinutes int            `json:"weekly_overtime_minutes"`
}

func FromApproval(a *domain.TimesheetApproval) Approval {
	return Approval{
		ID:         a.ID,
		UserID:     a.UserID,
		WorkDate:   a.WorkDate,
		Status:     string(a.Status),
		ReviewerID: a.ReviewerID,
		Notes:      a.Notes,
		ReviewedAt: a.ReviewedAt,
	}
}

func FromDailySummary(d *domain.DailySummary) DailySummary {
	out := DailySummary{
		WorkDate:          d.WorkDate,
		TotalWorkMinutes:  d.TotalWorkMinutes,
		TotalBreakMinutes: d.TotalBreakMinutes,
		SessionCount:      d.SessionCount,
		BreakCount:        d.BreakCount,
		MealBreakCount:    d.MealBreakCount,
		OvertimeMinutes:   d.OvertimeMinutes,
		ComplianceNotes:   d.ComplianceNotes,
	}
	// Always an array on the wire.
	if out.ComplianceNotes == nil {
		out.ComplianceNotes = []string{}
	}
	if d.Approval != nil {
		a := FromApproval(d.Approval)
		out.Approval = &a
	}
	return out
}

func FromWeeklySummary(w *domain.WeeklySummary) WeeklySummary {
	out := WeeklySummary{
		WeekStart:             w.WeekStart,
		Days:                  make([]DailySummary, 0, len(w.Days)),
		TotalWorkMinutes:      w.TotalWorkMinutes,
		TotalBreakMinutes:     w.TotalBreakMinutes,
		DailyOvertimeMinutes:  w.DailyOvertimeMinutes,
		WeeklyOvertimeMinutes: w.WeeklyOvertimeMinutes,
	}
	for i := range w.Days {
		out.Days = append(out.Days, FromDailySummary(&w.Days[i]))
	}
	return out
}

// SweptSession is a session closed by the sweeper, with its owner.
type SweptSession struct {
	WorkSession
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
}

type SweepResult struct {
	ClosedSessions []SweptSession `json:"closed_sessions"`
	ClosedBreaks   int            `json:"closed_breaks"`
}

func FromSweepResult(r *app.SweepResult) SweepResult {
	out := SweepResult{
		ClosedSessions: make([]SweptSession, 0, len(r.ClosedSessions)),
		ClosedBreaks:   r.ClosedBreaks,
	}
	for _, s := range r.ClosedSessions {
		out.ClosedSessions = append(out.ClosedSessions, SweptSession{
			WorkSession:    fromSession(s),
			UserID:         s.UserID,
			OrganizationID: s.OrganizationID,
		})
	}
	return out
}
