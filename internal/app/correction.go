package app

import (
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// CorrectionSubmission proposes new times for one of the worker's closed
// sessions, or a missing session when SessionID is empty.
type CorrectionSubmission struct {
	SessionID string
	ClockIn   time.Time
	ClockOut  time.Time
	Reason    string
}

// CorrectionDecision approves or rejects a pending request.
type CorrectionDecision struct {
	RequestID string
	Status    domain.ReviewStatus
	Notes     string
}

// CorrectionQuery filters the organization's requests. Zero values match all.
type CorrectionQuery struct {
	UserID string
	Status domain.CorrectionStatus
}
