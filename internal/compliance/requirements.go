package compliance

import "github.com/alexanderramin/shiftclock/internal/domain"

// Thresholds approximating California meal and rest break rules.
const (
	MinWorkBeforeBreak = 120 // minutes worked before any break may start
	RestBlockMinutes   = 240 // one rest break earned per block
	RestBreakMinutes   = 10
	MealBlockMinutes   = 300 // one meal break earned per block
	MealBreakMinutes   = 30
)

const (
	MsgFirstBreak   = "Work 2+ hours to earn your first break"
	MsgMealRequired = "Meal break required after 5 hours of work"
	MsgEarned       = "You've earned break time!"
	MsgMet          = "Break requirements met"
	MsgOnBreak      = "On break"
)

// BreakInput is the day-scoped work history the evaluator needs. All inputs
// reset at the start of each paid day because callers derive them from a
// single day window.
type BreakInput struct {
	TotalWorkedMinutes int
	BreakMinutesTaken  int
	MealBreaksTaken    int
	OnBreak            bool
}

// EvaluateBreaks computes earned and owed breaks. It is stateless so it can
// be recomputed on every tick. Thresholds are inclusive: a break is earned at
// the instant its block completes.
func EvaluateBreaks(in BreakInput) domain.BreakRequirements {
	worked := in.TotalWorkedMinutes
	if worked < 0 {
		worked = 0
	}

	req := domain.BreakRequirements{
		RestBreaks: worked / RestBlockMinutes,
		MealBreaks: worked / MealBlockMinutes,
	}

	earned := req.RestBreaks*RestBreakMinutes + req.MealBreaks*MealBreakMinutes - in.BreakMinutesTaken
	if earned > 0 {
		req.EarnedBreakMinutes = earned
	}

	req.RequiresMealBreak = worked >= MealBlockMinutes && in.MealBreaksTaken == 0
	req.CanTakeBreak = worked >= MinWorkBeforeBreak && !in.OnBreak

	if worked < MinWorkBeforeBreak {
		req.NextBreakInMinutes = MinWorkBeforeBreak - worked
	} else if req.RequiresMealBreak || worked >= MealBlockMinutes {
		req.SuggestedBreakType = domain.BreakLunch
	} else {
		req.SuggestedBreakType = domain.BreakCoffee
	}

	switch {
	case in.OnBreak:
		req.ComplianceMessage = MsgOnBreak
	case worked < MinWorkBeforeBreak:
		req.ComplianceMessage = MsgFirstBreak
	case req.RequiresMealBreak:
		req.ComplianceMessage = MsgMealRequired
	case req.EarnedBreakMinutes > 0:
		req.ComplianceMessage = MsgEarned
	default:
		req.ComplianceMessage = MsgMet
	}

	return req
}

// RequirementsFor evaluates breaks for a projected session state.
func RequirementsFor(state domain.SessionState) domain.BreakRequirements {
	return EvaluateBreaks(BreakInput{
		TotalWorkedMinutes: state.TotalWorkedToday,
		BreakMinutesTaken:  state.TotalBreakToday,
		MealBreaksTaken:    state.MealBreaksTakenToday,
		OnBreak:            state.IsOnBreak,
	})
}
