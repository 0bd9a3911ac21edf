package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
	"github.com/google/uuid"
)

type correctionService struct {
	sessions    repository.WorkSessionRepo
	corrections repository.CorrectionRepo
	uow         db.UnitOfWork
	opts        Options
	observer    UseCaseObserver
}

func NewCorrectionService(
	sessions repository.WorkSessionRepo,
	corrections repository.CorrectionRepo,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) CorrectionService {
	return &correctionService{
		sessions:    sessions,
		corrections: corrections,
		uow:         uow,
		opts:        opts.withDefaults(),
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Submit files a pending request against one of the actor's closed
// sessions, or for a missing session when SessionID is empty.
func (s *correctionService) Submit(ctx context.Context, actor app.Actor, sub app.CorrectionSubmission) (result *domain.CorrectionRequest, err error) {
	fields := map[string]any{"user_id": actor.UserID, "session_id": sub.SessionID}
	defer observe(ctx, s.observer, "submit-correction", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(sub.Reason)
	if reason == "" {
		return nil, domain.ErrCorrectionReasonRequired
	}
	now := s.opts.now()
	clockIn := sub.ClockIn.UTC().Truncate(time.Millisecond)
	clockOut := sub.ClockOut.UTC().Truncate(time.Millisecond)
	if err = domain.ValidateCorrectionWindow(clockIn, clockOut, now, s.opts.MaxSessionDuration); err != nil {
		return nil, err
	}

	req := &domain.CorrectionRequest{
		ID:               uuid.New().String(),
		UserID:           actor.UserID,
		OrganizationID:   actor.OrganizationID,
		SessionID:        strings.TrimSpace(sub.SessionID),
		ProposedClockIn:  clockIn,
		ProposedClockOut: clockOut,
		Reason:           reason,
		Status:           domain.CorrectionPending,
		RequestedAt:      now,
	}
	if req.SessionID != "" {
		ws, err := s.ownSession(ctx, s.sessions, actor, req.SessionID)
		if err != nil {
			return nil, err
		}
		if ws.IsOpen() {
			return nil, domain.ErrSessionOpen
		}
		in, out := ws.ClockInAt, *ws.ClockOutAt
		req.OriginalClockIn, req.OriginalClockOut = &in, &out
	}

	if err = s.corrections.Create(ctx, req); err != nil {
		return nil, domain.Persistence("create correction", err)
	}
	fields["correction_id"] = req.ID
	return req, nil
}

// Review approves or rejects a pending request from the reviewer's
// organization. Approval rewrites or adds the session in the same
// transaction that resolves the request.
func (s *correctionService) Review(ctx context.Context, reviewer app.Actor, dec app.CorrectionDecision) (result *domain.CorrectionRequest, err error) {
	fields := map[string]any{
		"reviewer_id":   reviewer.UserID,
		"correction_id": dec.RequestID,
		"status":        string(dec.Status),
	}
	defer observe(ctx, s.observer, "review-correction", time.Now(), fields, &err)

	if err = reviewer.Validate(); err != nil {
		return nil, err
	}
	if !domain.ValidReviewStatuses[dec.Status] {
		return nil, domain.ErrInvalidReviewStatus
	}
	notes := strings.TrimSpace(dec.Notes)
	if dec.Status == domain.ReviewRejected && notes == "" {
		return nil, domain.ErrReasonRequired
	}
	now := s.opts.now()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCorrectionRepo(tx)
		req, err := repo.GetByID(ctx, strings.TrimSpace(dec.RequestID))
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrCorrectionNotFound
		}
		if err != nil {
			return domain.Persistence("get correction", err)
		}
		if req.OrganizationID != reviewer.OrganizationID {
			return domain.ErrCorrectionNotFound
		}
		if req.UserID == reviewer.UserID {
			return domain.ErrSelfReview
		}
		if !req.IsPending() {
			return domain.ErrAlreadyReviewed
		}

		if dec.Status == domain.ReviewApproved {
			if err := s.apply(ctx, tx, reviewer, req, now); err != nil {
				return err
			}
			req.Status = domain.CorrectionApproved
		} else {
			req.Status = domain.CorrectionRejected
		}
		req.ReviewerID = reviewer.UserID
		req.ReviewNotes = notes
		req.ReviewedAt = &now

		if err := repo.Resolve(ctx, req); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrAlreadyReviewed
			}
			return domain.Persistence("resolve correction", err)
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["subject_id"] = result.UserID
	return result, nil
}

// apply writes the approved times. The replacement window may not overlap
// another of the worker's sessions, and every break of a rewritten session
// must stay inside it.
func (s *correctionService) apply(ctx context.Context, tx db.DBTX, reviewer app.Actor, req *domain.CorrectionRequest, now time.Time) error {
	if err := domain.ValidateCorrectionWindow(req.ProposedClockIn, req.ProposedClockOut, now, s.opts.MaxSessionDuration); err != nil {
		return err
	}
	l := txLoader(tx)
	subject := app.Actor{UserID: req.UserID, OrganizationID: req.OrganizationID}

	overlapping, err := l.sessions.ListOverlapping(ctx, subject.UserID, subject.OrganizationID, req.ProposedClockIn, req.ProposedClockOut)
	if err != nil {
		return domain.Persistence("list sessions", err)
	}
	for _, ws := range overlapping {
		if ws.ID != req.SessionID {
			return domain.ErrCorrectionConflict
		}
	}

	note := "corrected by " + reviewer.UserID + ": " + req.Reason
	if req.AddsSession() {
		out := req.ProposedClockOut
		ws := &domain.WorkSession{
			ID:             uuid.New().String(),
			UserID:         subject.UserID,
			OrganizationID: subject.OrganizationID,
			ClockInAt:      req.ProposedClockIn,
			ClockOutAt:     &out,
			Notes:          note,
			CreatedAt:      now,
		}
		if err := l.sessions.Create(ctx, ws); err != nil {
			return domain.Persistence("create session", err)
		}
		req.SessionID = ws.ID
		return nil
	}

	ws, err := s.ownSession(ctx, l.sessions, subject, req.SessionID)
	if err != nil {
		return err
	}
	if ws.IsOpen() {
		return domain.ErrSessionOpen
	}
	breaks, err := l.breaks.ListBySessions(ctx, []string{ws.ID})
	if err != nil {
		return domain.Persistence("list breaks", err)
	}
	for _, b := range breaks {
		if b.IsOpen() || b.StartedAt.Before(req.ProposedClockIn) || b.EndedAt.After(req.ProposedClockOut) {
			return domain.ErrCorrectionConflict
		}
	}
	err = l.sessions.Correct(ctx, ws.ID, req.ProposedClockIn, req.ProposedClockOut, domain.AppendNote(ws.Notes, note))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrSessionOpen
	}
	if err != nil {
		return domain.Persistence("correct session", err)
	}
	return nil
}

// ownSession loads a session and hides it unless it belongs to actor.
func (s *correctionService) ownSession(ctx context.Context, sessions repository.WorkSessionRepo, actor app.Actor, id string) (*domain.WorkSession, error) {
	ws, err := sessions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, domain.Persistence("get session", err)
	}
	if ws.UserID != actor.UserID || ws.OrganizationID != actor.OrganizationID {
		return nil, domain.ErrSessionNotFound
	}
	return ws, nil
}

// List returns the requests of the actor's organization.
func (s *correctionService) List(ctx context.Context, actor app.Actor, q app.CorrectionQuery) (_ []domain.CorrectionRequest, err error) {
	fields := map[string]any{"user_id": actor.UserID, "status": string(q.Status)}
	defer observe(ctx, s.observer, "list-corrections", time.Now(), fields, &err)

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	if q.Status != "" && !domain.ValidCorrectionStatuses[q.Status] {
		return nil, domain.ErrInvalidReviewStatus
	}
	out, err := s.corrections.List(ctx, actor.OrganizationID, strings.TrimSpace(q.UserID), q.Status)
	if err != nil {
		return nil, domain.Persistence("list corrections", err)
	}
	return out, nil
}
