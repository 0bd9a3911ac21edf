package contract

import "github.com/alexanderramin/shiftclock/internal/domain"

// Error is the uniform error body: what went wrong, which area it belongs
// to, and what the caller can do about it.
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

func (e *Error) Error() string {
	return "[" + e.Code + "] " + e.Message
}

type errorHint struct {
	category string
	action   string
}

var errorHints = map[string]errorHint{
	"already_active":        {"tracking", "Clock out before clocking in again."},
	"not_active":            {"tracking", "Clock in first."},
	"break_not_eligible":    {"tracking", "Check next_break_in_minutes, or resume the current break."},
	"no_active_break":       {"tracking", "Start a break before resuming."},
	"on_break":              {"tracking", "Resume work, then clock out."},
	"missing_actor":         {"auth", "Send X-User-ID and X-Organization-ID."},
	"invalid_date":          {"validation", "Use a YYYY-MM-DD date."},
	"invalid_break_type":    {"validation", "Use coffee, rest or lunch."},
	"invalid_transition":    {"tracking", "Refresh the tracking state and retry."},
	"invalid_review_status": {"validation", "Use approved or rejected."},
	"self_review":           {"approval", "Ask another manager to review your timesheet."},
	"reason_required":       {"validation", "Add a reason or notes explaining the request."},
	"invalid_correction":    {"validation", "Send a clock-out after the clock-in, in the past, within one session's length."},
	"session_not_found":     {"correction", "Pick one of your own sessions, or omit the session to add a missing one."},
	"session_open":          {"correction", "Clock out, then request the correction."},
	"correction_not_found":  {"correction", "Check the request ID."},
	"already_reviewed":      {"correction", "Submit a new request to change the times again."},
	"correction_conflict":   {"correction", "Reject the request, or ask for times that keep its breaks and avoid other sessions."},
}

// NewError maps a use-case error to its wire form. Storage and unknown
// failures get a generic message so internals do not leak.
func NewError(err error) *Error {
	code := domain.ErrorCode(err)
	if hint, ok := errorHints[code]; ok {
		return &Error{Code: code, Message: err.Error(), Category: hint.category, Action: hint.action}
	}
	return &Error{
		Code:     code,
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Retry later.",
	}
}
