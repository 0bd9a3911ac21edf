package contract

import (
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// SubmitCorrectionRequest proposes new times. Omit session_id to ask for a
// missing session to be added.
type SubmitCorrectionRequest struct {
	SessionID string    `json:"session_id,omitempty"`
	ClockIn   time.Time `json:"clock_in"`
	ClockOut  time.Time `json:"clock_out"`
	Reason    string    `json:"reason"`
}

type Correction struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	SessionID        string     `json:"session_id,omitempty"`
	OriginalClockIn  *time.Time `json:"original_clock_in,omitempty"`
	OriginalClockOut *time.Time `json:"original_clock_out,omitempty"`
	ProposedClockIn  time.Time  `json:"proposed_clock_in"`
	ProposedClockOut time.Time  `json:"proposed_clock_out"`
	Reason           string     `json:"reason"`
	Status           string     `json:"status"`
	ReviewerID       string     `json:"reviewer_id,omitempty"`
	ReviewNotes      string     `json:"review_notes,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	RequestedAt      time.Time  `json:"requested_at"`
}

type CorrectionList struct {
	Corrections []Correction `json:"corrections"`
}

func FromCorrection(c *domain.CorrectionRequest) Correction {
	return Correction{
		ID:               c.ID,
		UserID:           c.UserID,
		SessionID:        c.SessionID,
		OriginalClockIn:  c.OriginalClockIn,
		OriginalClockOut: c.OriginalClockOut,
		ProposedClockIn:  c.ProposedClockIn,
		ProposedClockOut: c.ProposedClockOut,
		Reason:           c.Reason,
		Status:           string(c.Status),
		ReviewerID:       c.ReviewerID,
		ReviewNotes:      c.ReviewNotes,
		ReviewedAt:       c.ReviewedAt,
		RequestedAt:      c.RequestedAt,
	}
}

func FromCorrections(cs []domain.CorrectionRequest) CorrectionList {
	out := CorrectionList{Corrections: make([]Correction, 0, len(cs))}
	for i := range cs {
		out.Corrections = append(out.Corrections, FromCorrection(&cs[i]))
	}
	return out
}
