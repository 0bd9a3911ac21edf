package domain

import "time"

type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApproved CorrectionStatus = "approved"
	CorrectionRejected CorrectionStatus = "rejected"
)

// ValidCorrectionStatuses is the canonical set of stored correction statuses.
var ValidCorrectionStatuses = map[CorrectionStatus]bool{
	CorrectionPending:  true,
	CorrectionApproved: true,
	CorrectionRejected: true,
}

// CorrectionRequest asks a reviewer to replace a closed session's clock-in
// and clock-out times. An empty SessionID asks for a missing session to be
// added; approval fills it in.
type CorrectionRequest struct {
	ID             string
	UserID         string
	OrganizationID string
	SessionID      string

	// Times recorded when the request was made. Nil for a missing session.
	OriginalClockIn  *time.Time
	OriginalClockOut *time.Time

	ProposedClockIn  time.Time
	ProposedClockOut time.Time
	Reason           string

	Status      CorrectionStatus
	ReviewerID  string
	ReviewNotes string
	ReviewedAt  *time.Time
	RequestedAt time.Time
}

func (c *CorrectionRequest) IsPending() bool {
	return c.Status == CorrectionPending
}

// AddsSession reports whether approval creates a session instead of
// rewriting one.
func (c *CorrectionRequest) AddsSession() bool {
	return c.OriginalClockIn == nil
}

// ValidateCorrectionWindow checks proposed times against now and the longest
// session the tracker allows.
func ValidateCorrectionWindow(clockIn, clockOut, now time.Time, maxSession time.Duration) error {
	switch {
	case clockIn.IsZero() || clockOut.IsZero():
		return ErrInvalidCorrection
	case !clockOut.After(clockIn):
		return ErrInvalidCorrection
	case clockOut.After(now):
		return ErrInvalidCorrection
	case maxSession > 0 && clockOut.Sub(clockIn) > maxSession:
		return ErrInvalidCorrection
	}
	return nil
}
