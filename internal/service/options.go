package service

import "time"

// DefaultMaxSessionDuration is how long a session may stay open before the
// sweeper closes it.
const DefaultMaxSessionDuration = 16 * time.Hour

// Options carries the policy knobs shared by the services.
type Options struct {
	// Location defines the local calendar day used for daily totals.
	Location *time.Location
	// MaxSessionDuration bounds an open session; zero disables auto-close.
	MaxSessionDuration time.Duration
	// AutoResumeOnClockOut closes an open break at clock-out instead of
	// rejecting the clock-out with ErrOnBreak.
	AutoResumeOnClockOut bool
	// Now overrides the time source.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) now() time.Time {
	return o.Now().UTC().Truncate(time.Millisecond)
}
