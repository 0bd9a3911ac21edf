package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive indicates a clock-in while a work session is already open.
	ErrAlreadyActive = errors.New("already clocked in")

	// ErrNotActive indicates a clock-out or break request while clocked out.
	ErrNotActive = errors.New("not clocked in")

	// ErrBreakNotEligible indicates a break requested before the eligibility
	// threshold or while another break is active.
	ErrBreakNotEligible = errors.New("not eligible for a break")

	// ErrNoActiveBreak indicates a resume without an open break.
	ErrNoActiveBreak = errors.New("no active break")

	// ErrOnBreak indicates a clock-out attempted while a break is still open.
	ErrOnBreak = errors.New("resume work before clocking out")

	// ErrMissingActor indicates a request without a user or organization.
	ErrMissingActor = errors.New("user and organization are required")

	ErrInvalidDate         = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidBreakType    = errors.New("invalid break type")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrSelfReview          = errors.New("cannot review your own timesheet")
	ErrReasonRequired      = errors.New("a reason is required to reject a timesheet")

	// ErrInvalidCorrection indicates proposed times that are missing,
	// reversed, in the future or longer than the maximum session.
	ErrInvalidCorrection        = errors.New("invalid correction times")
	ErrCorrectionReasonRequired = errors.New("a reason is required to request a correction")
	ErrSessionNotFound          = errors.New("work session not found")
	ErrSessionOpen              = errors.New("clock out before correcting this session")
	ErrCorrectionNotFound       = errors.New("correction request not found")
	ErrAlreadyReviewed          = errors.New("correction request already reviewed")

	// ErrCorrectionConflict indicates corrected times that would overlap
	// another session or leave a break outside the session.
	ErrCorrectionConflict = errors.New("corrected times conflict with recorded sessions or breaks")
)

// PersistenceError wraps a storage-layer failure with the operation that
// triggered it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err in a PersistenceError unless it is nil or already one.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrAlreadyActive, "already_active"},
	{ErrNotActive, "not_active"},
	{ErrBreakNotEligible, "break_not_eligible"},
	{ErrNoActiveBreak, "no_active_break"},
	{ErrOnBreak, "on_break"},
	{ErrMissingActor, "missing_actor"},
	{ErrInvalidDate, "invalid_date"},
	{ErrInvalidBreakType, "invalid_break_type"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrInvalidReviewStatus, "invalid_review_status"},
	{ErrSelfReview, "self_review"},
	{ErrReasonRequired, "reason_required"},
	{ErrCorrectionReasonRequired, "reason_required"},
	{ErrInvalidCorrection, "invalid_correction"},
	{ErrSessionNotFound, "session_not_found"},
	{ErrSessionOpen, "session_open"},
	{ErrCorrectionNotFound, "correction_not_found"},
	{ErrAlreadyReviewed, "already_reviewed"},
	{ErrCorrectionConflict, "correction_conflict"},
}

// ErrorCode returns a stable snake_case code for err: "ok" for nil, the
// sentinel's code, "persistence" for storage failures, or "internal".
func ErrorCode(err error) string {
	if err == nil {
		return "ok"
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return "persistence"
	}
	return "internal"
}
