package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/compliance"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
)

// historyLoader reads the rows a projection or summary needs. It works the
// same against the pooled database and a transaction.
type historyLoader struct {
	sessions repository.WorkSessionRepo
	breaks   repository.BreakPeriodRepo
}

// load returns sessions overlapping [from, to) and all of their breaks.
func (l historyLoader) load(ctx context.Context, actor app.Actor, from, to time.Time) ([]domain.WorkSession, []domain.BreakPeriod, error) {
	sessions, err := l.sessions.ListOverlapping(ctx, actor.UserID, actor.OrganizationID, from, to)
	if err != nil {
		return nil, nil, domain.Persistence("list sessions", err)
	}
	if len(sessions) == 0 {
		return nil, nil, nil
	}
	ids := make([]string, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
	}
	breaks, err := l.breaks.ListBySessions(ctx, ids)
	if err != nil {
		return nil, nil, domain.Persistence("list breaks", err)
	}
	return sessions, breaks, nil
}

// project builds the snapshot for now from the actor's day.
func (l historyLoader) project(ctx context.Context, actor app.Actor, now time.Time, loc *time.Location) (*app.TrackingSnapshot, error) {
	day := compliance.DayWindowFor(now, loc)
	// An open session never ends after now, so later rows cannot matter.
	sessions, breaks, err := l.load(ctx, actor, day.Start, day.End)
	if err != nil {
		return nil, err
	}

	state := compliance.Project(compliance.ProjectionInput{
		Now:      now,
		Day:      day,
		Sessions: sessions,
		Breaks:   breaks,
	})

	snap := &app.TrackingSnapshot{
		AsOf:          now,
		State:         state,
		Requirements:  compliance.RequirementsFor(state),
		AllowedEvents: domain.AllowedEvents(state.Phase),
	}
	if open := compliance.OpenSession(sessions); open != nil {
		s := *open
		snap.Session = &s
		var own []domain.BreakPeriod
		for _, b := range breaks {
			if b.SessionID == s.ID {
				own = append(own, b)
			}
		}
		if b := compliance.OpenBreak(own); b != nil {
			br := *b
			snap.Break = &br
		}
	}
	return snap, nil
}

// current returns the actor's open session and open break, either of which
// may be nil, and the phase they imply.
func (l historyLoader) current(ctx context.Context, actor app.Actor) (*domain.WorkSession, *domain.BreakPeriod, domain.Phase, error) {
	session, err := l.sessions.GetOpen(ctx, actor.UserID, actor.OrganizationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, domain.PhaseIdle, nil
	}
	if err != nil {
		return nil, nil, "", domain.Persistence("get open session", err)
	}

	brk, err := l.breaks.GetOpenBySession(ctx, session.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return session, nil, domain.PhaseWorking, nil
	}
	if err != nil {
		return nil, nil, "", domain.Persistence("get open break", err)
	}
	return session, brk, domain.PhaseOnBreak, nil
}
