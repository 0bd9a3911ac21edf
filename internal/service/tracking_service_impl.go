package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/compliance"
	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
	"github.com/google/uuid"
)

type trackingService struct {
	reads    historyLoader
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewTrackingService(
	sessions repository.WorkSessionRepo,
	breaks repository.BreakPeriodRepo,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) TrackingService {
	return &trackingService{
		reads:    historyLoader{sessions: sessions, breaks: breaks},
		uow:      uow,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// txLoader builds repositories scoped to tx.
func txLoader(tx db.DBTX) historyLoader {
	return historyLoader{
		sessions: repository.NewSQLiteWorkSessionRepo(tx),
		breaks:   repository.NewSQLiteBreakPeriodRepo(tx),
	}
}

func (s *trackingService) ClockIn(ctx context.Context, actor app.Actor, notes string) (snap *app.TrackingSnapshot, err error) {
	fields := map[string]any{"user_id": actor.UserID}
	defer observe(ctx, s.observer, "clock-in", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	now := s.opts.now()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		l := txLoader(tx)
		open, _, phase, err := l.current(ctx, actor)
		if err != nil {
			return err
		}
		if open != nil && isStale(*open, now, s.opts.MaxSessionDuration) {
			if _, err := autoClose(ctx, l, *open, s.opts.MaxSessionDuration); err != nil {
				return err
			}
			fields["auto_closed"] = 1
			phase = domain.PhaseIdle
		}
		if _, err := domain.Transition(phase, domain.EventClockIn); err != nil {
			return err
		}

		ws := &domain.WorkSession{
			ID:             uuid.New().String(),
			UserID:         actor.UserID,
			OrganizationID: actor.OrganizationID,
			ClockInAt:      now,
			Notes:          strings.TrimSpace(notes),
			CreatedAt:      now,
		}
		if err := l.sessions.Create(ctx, ws); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.ErrAlreadyActive
			}
			return domain.Persistence("create session", err)
		}
		fields["session_id"] = ws.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reads.project(ctx, actor, now, s.opts.Location)
}

func (s *trackingService) ClockOut(ctx context.Context, actor app.Actor, notes string) (snap *app.TrackingSnapshot, err error) {
	fields := map[string]any{"user_id": actor.UserID}
	defer observe(ctx, s.observer, "clock-out", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	now := s.opts.now()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		l := txLoader(tx)
		session, brk, phase, err := l.current(ctx, actor)
		if err != nil {
			return err
		}
		if phase == domain.PhaseOnBreak && s.opts.AutoResumeOnClockOut {
			if err := endBreak(ctx, l, brk, now); err != nil {
				return err
			}
			fields["auto_resumed"] = true
			phase = domain.PhaseWorking
		}
		if _, err := domain.Transition(phase, domain.EventClockOut); err != nil {
			return err
		}

		if err := session.Close(now, strings.TrimSpace(notes)); err != nil {
			return err
		}
		if err := l.sessions.Close(ctx, session.ID, *session.ClockOutAt, session.Notes); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrNotActive
			}
			return domain.Persistence("close session", err)
		}
		fields["session_id"] = session.ID
		fields["session_minutes"] = compliance.ElapsedMinutes(session.ClockInAt, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reads.project(ctx, actor, now, s.opts.Location)
}

func (s *trackingService) StartBreak(ctx context.Context, actor app.Actor, breakType domain.BreakType) (snap *app.TrackingSnapshot, err error) {
	fields := map[string]any{"user_id": actor.UserID, "break_type": string(breakType)}
	defer observe(ctx, s.observer, "start-break", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	if !domain.ValidBreakTypes[breakType] {
		return nil, domain.ErrInvalidBreakType
	}
	now := s.opts.now()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		l := txLoader(tx)
		session, _, phase, err := l.current(ctx, actor)
		if err != nil {
			return err
		}
		if _, err := domain.Transition(phase, domain.EventStartBreak); err != nil {
			return err
		}

		// The eligibility guard reads today's totals inside the same
		// transaction that inserts the break.
		current, err := l.project(ctx, actor, now, s.opts.Location)
		if err != nil {
			return err
		}
		fields["worked_minutes"] = current.State.TotalWorkedToday
		if !current.Requirements.CanTakeBreak {
			return domain.ErrBreakNotEligible
		}

		b := &domain.BreakPeriod{
			ID:        uuid.New().String(),
			SessionID: session.ID,
			Type:      breakType,
			StartedAt: now,
		}
		if err := l.breaks.Create(ctx, b); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.ErrBreakNotEligible
			}
			return domain.Persistence("create break", err)
		}
		fields["break_id"] = b.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reads.project(ctx, actor, now, s.opts.Location)
}

func (s *trackingService) ResumeWork(ctx context.Context, actor app.Actor) (snap *app.TrackingSnapshot, err error) {
	fields := map[string]any{"user_id": actor.UserID}
	defer observe(ctx, s.observer, "resume-work", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	now := s.opts.now()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		l := txLoader(tx)
		_, brk, phase, err := l.current(ctx, actor)
		if err != nil {
			return err
		}
		if _, err := domain.Transition(phase, domain.EventResume); err != nil {
			return err
		}
		fields["break_minutes"] = compliance.ElapsedMinutes(brk.StartedAt, now)
		return endBreak(ctx, l, brk, now)
	})
	if err != nil {
		return nil, err
	}
	return s.reads.project(ctx, actor, now, s.opts.Location)
}

func (s *trackingService) Snapshot(ctx context.Context, actor app.Actor) (snap *app.TrackingSnapshot, err error) {
	fields := map[string]any{"user_id": actor.UserID}
	defer observe(ctx, s.observer, "snapshot", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	snap, err = s.reads.project(ctx, actor, s.opts.now(), s.opts.Location)
	if err != nil {
		return nil, err
	}
	fields["phase"] = string(snap.State.Phase)
	return snap, nil
}

func endBreak(ctx context.Context, l historyLoader, brk *domain.BreakPeriod, at time.Time) error {
	if err := brk.End(at); err != nil {
		return err
	}
	if err := l.breaks.Close(ctx, brk.ID, *brk.EndedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoActiveBreak
		}
		return domain.Persistence("close break", err)
	}
	return nil
}
