package domain

import "time"

// WorkDateLayout is the calendar-date format used for work dates.
const WorkDateLayout = "2006-01-02"

type TimesheetApproval struct {
	ID             string
	UserID         string
	OrganizationID string
	WorkDate       string
	Status         ReviewStatus
	ReviewerID     string
	Notes          string
	ReviewedAt     time.Time
}

// DailySummary aggregates one local calendar day for a user.
type DailySummary struct {
	WorkDate          string
	TotalWorkMinutes  int
	TotalBreakMinutes int
	SessionCount      int
	BreakCount        int
	MealBreakCount    int
	OvertimeMinutes   int
	ComplianceNotes   []string
	Approval          *TimesheetApproval
}

// WeeklySummary aggregates a Monday-start week.
type WeeklySummary struct {
	WeekStart             string
	Days                  []DailySummary
	TotalWorkMinutes      int
	TotalBreakMinutes     int
	DailyOvertimeMinutes  int
	WeeklyOvertimeMinutes int
}
