package domain

import (
	"fmt"
	"strings"
)

type BreakType string

const (
	BreakCoffee BreakType = "coffee"
	BreakRest   BreakType = "rest"
	BreakLunch  BreakType = "lunch"
)

// ValidBreakTypes is the canonical set of accepted break type strings.
var ValidBreakTypes = map[BreakType]bool{
	BreakCoffee: true,
	BreakRest:   true,
	BreakLunch:  true,
}

// IsMeal reports whether the break counts as a meal break.
func (b BreakType) IsMeal() bool {
	return b == BreakLunch
}

// Label returns the display name used in notes and messages ("Lunch").
func (b BreakType) Label() string {
	if b == "" {
		return ""
	}
	s := string(b)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseBreakType accepts the canonical names case-insensitively, plus
// "meal" as an alias for lunch.
func ParseBreakType(s string) (BreakType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "meal" {
		v = string(BreakLunch)
	}
	bt := BreakType(v)
	if !ValidBreakTypes[bt] {
		return "", fmt.Errorf("%w: %q (want coffee, rest or lunch)", ErrInvalidBreakType, s)
	}
	return bt, nil
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWorking Phase = "working"
	PhaseOnBreak Phase = "on_break"
)

type Event string

const (
	EventClockIn    Event = "clock_in"
	EventClockOut   Event = "clock_out"
	EventStartBreak Event = "start_break"
	EventResume     Event = "resume"
)

type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ValidReviewStatuses is the canonical set of accepted review status strings.
var ValidReviewStatuses = map[ReviewStatus]bool{
	ReviewApproved: true,
	ReviewRejected: true,
}
