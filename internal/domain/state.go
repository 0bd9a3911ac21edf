package domain

import "fmt"

// transitions is the tracking state machine. Guards that depend on elapsed
// time (break eligibility) are evaluated by the controller; this table only
// encodes which events are legal from which phase.
var transitions = map[Phase]map[Event]Phase{
	PhaseIdle: {
		EventClockIn: PhaseWorking,
	},
	PhaseWorking: {
		EventStartBreak: PhaseOnBreak,
		EventClockOut:   PhaseIdle,
	},
	PhaseOnBreak: {
		EventResume: PhaseWorking,
	},
}

// Transition returns the phase reached by applying event in phase. Illegal
// events return the error kind a caller would surface for that attempt.
func Transition(from Phase, event Event) (Phase, error) {
	if to, ok := transitions[from][event]; ok {
		return to, nil
	}
	return from, transitionError(from, event)
}

func transitionError(from Phase, event Event) error {
	switch event {
	case EventClockIn:
		return ErrAlreadyActive
	case EventClockOut:
		if from == PhaseOnBreak {
			return ErrOnBreak
		}
		return ErrNotActive
	case EventStartBreak:
		if from == PhaseIdle {
			return ErrNotActive
		}
		return ErrBreakNotEligible
	case EventResume:
		return ErrNoActiveBreak
	default:
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, from)
	}
}

// AllowedEvents lists the events legal in phase, in a stable order.
func AllowedEvents(phase Phase) []Event {
	order := []Event{EventClockIn, EventStartBreak, EventResume, EventClockOut}
	var out []Event
	for _, e := range order {
		if _, ok := transitions[phase][e]; ok {
			out = append(out, e)
		}
	}
	return out
}
