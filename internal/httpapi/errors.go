package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/alexanderramin/shiftclock/internal/contract"
)

var statusByCode = map[string]int{
	"already_active":        http.StatusConflict,
	"not_active":            http.StatusConflict,
	"break_not_eligible":    http.StatusConflict,
	"no_active_break":       http.StatusConflict,
	"on_break":              http.StatusConflict,
	"invalid_transition":    http.StatusConflict,
	"missing_actor":         http.StatusUnauthorized,
	"self_review":           http.StatusForbidden,
	"invalid_date":          http.StatusBadRequest,
	"invalid_break_type":    http.StatusBadRequest,
	"invalid_review_status": http.StatusBadRequest,
	"reason_required":       http.StatusBadRequest,
	"invalid_correction":    http.StatusBadRequest,
	"session_not_found":     http.StatusNotFound,
	"correction_not_found":  http.StatusNotFound,
	"session_open":          http.StatusConflict,
	"already_reviewed":      http.StatusConflict,
	"correction_conflict":   http.StatusConflict,
}

// statusFor returns the HTTP status for a contract error code; anything
// unmapped is a server fault.
func statusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	body := contract.NewError(err)
	writeJSON(w, statusFor(body.Code), body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, contract.Error{
		Code:     "invalid_request",
		Message:  msg,
		Category: "validation",
		Action:   "Send a valid JSON body.",
	})
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, contract.Error{
		Code:     "internal",
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Retry later.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
