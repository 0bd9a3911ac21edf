package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
)

type sweepService struct {
	sessions repository.WorkSessionRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

// NewSweepService closes sessions left open longer than
// opts.MaxSessionDuration, typically because the worker forgot to clock out.
func NewSweepService(
	sessions repository.WorkSessionRepo,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) SweepService {
	return &sweepService{
		sessions: sessions,
		uow:      uow,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// CloseStale closes each stale session in its own transaction so one bad row
// does not hold back the rest. A session closed concurrently is skipped.
func (s *sweepService) CloseStale(ctx context.Context, now time.Time) (res *app.SweepResult, err error) {
	startedAt := time.Now()
	res = &app.SweepResult{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "sweep",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"auto_closed":   len(res.ClosedSessions),
				"closed_breaks": res.ClosedBreaks,
			},
		})
	}()

	maxDur := s.opts.MaxSessionDuration
	if maxDur <= 0 {
		return res, nil
	}

	stale, err := s.sessions.ListStaleOpen(ctx, now.Add(-maxDur))
	if err != nil {
		return res, domain.Persistence("list stale sessions", err)
	}

	var errs []error
	for _, ws := range stale {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var closedBreak bool
		txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			var err error
			closedBreak, err = autoClose(ctx, txLoader(tx), ws, maxDur)
			return err
		})
		switch {
		case txErr == nil:
			closed, err := s.sessions.GetByID(ctx, ws.ID)
			if err != nil {
				errs = append(errs, domain.Persistence("reload session", err))
				continue
			}
			res.ClosedSessions = append(res.ClosedSessions, *closed)
			if closedBreak {
				res.ClosedBreaks++
			}
		case errors.Is(txErr, repository.ErrNotFound):
			// Clocked out between listing and closing.
		default:
			errs = append(errs, fmt.Errorf("session %s: %w", ws.ID, txErr))
		}
	}
	return res, errors.Join(errs...)
}

func isStale(ws domain.WorkSession, now time.Time, maxDur time.Duration) bool {
	return maxDur > 0 && !now.Before(ws.ClockInAt.Add(maxDur))
}

// autoClose ends ws at clock-in plus maxDur, first closing any open break at
// the same instant. A break that started after that instant is ended at its
// own start and the session stretched to match, keeping both CHECKs valid.
func autoClose(ctx context.Context, l historyLoader, ws domain.WorkSession, maxDur time.Duration) (closedBreak bool, err error) {
	closeAt := ws.ClockInAt.Add(maxDur)

	brk, err := l.breaks.GetOpenBySession(ctx, ws.ID)
	switch {
	case err == nil:
		end := closeAt
		if end.Before(brk.StartedAt) {
			end = brk.StartedAt
			closeAt = end
		}
		if err := l.breaks.Close(ctx, brk.ID, end); err != nil {
			return false, domain.Persistence("auto-close break", err)
		}
		closedBreak = true
	case !errors.Is(err, repository.ErrNotFound):
		return false, domain.Persistence("get open break", err)
	}

	notes := domain.AppendNote(ws.Notes, fmt.Sprintf("auto-closed after %s open", maxDur))
	if err := l.sessions.MarkAutoClosed(ctx, ws.ID, closeAt, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, err
		}
		return false, domain.Persistence("auto-close session", err)
	}
	return closedBreak, nil
}
