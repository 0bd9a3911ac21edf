package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

type WorkSessionRepo interface {
	// Create inserts an open session. A second open session for the same
	// user in the same organization fails with ErrConflict.
	Create(ctx context.Context, s *domain.WorkSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkSession, error)
	// GetOpen returns the user's open session or ErrNotFound.
	GetOpen(ctx context.Context, userID, orgID string) (*domain.WorkSession, error)
	// Close sets clock_out_at and notes on an open session.
	Close(ctx context.Context, id string, clockOutAt time.Time, notes string) error
	// ListOverlapping returns sessions intersecting [from, to), including
	// a session still open that began before from.
	ListOverlapping(ctx context.Context, userID, orgID string, from, to time.Time) ([]domain.WorkSession, error)
	// ListStaleOpen returns open sessions across all users that clocked in
	// at or before cutoff.
	ListStaleOpen(ctx context.Context, cutoff time.Time) ([]domain.WorkSession, error)
	MarkAutoClosed(ctx context.Context, id string, clockOutAt time.Time, notes string) error
	// Correct rewrites a closed session's times and clears auto_closed.
	// An open or missing session fails with ErrNotFound.
	Correct(ctx context.Context, id string, clockInAt, clockOutAt time.Time, notes string) error
}

type BreakPeriodRepo interface {
	// Create inserts an open break. A second open break in the same session
	// fails with ErrConflict.
	Create(ctx context.Context, b *domain.BreakPeriod) error
	Close(ctx context.Context, id string, endedAt time.Time) error
	// GetOpenBySession returns the session's open break or ErrNotFound.
	GetOpenBySession(ctx context.Context, sessionID string) (*domain.BreakPeriod, error)
	ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.BreakPeriod, error)
}

type CorrectionRepo interface {
	Create(ctx context.Context, c *domain.CorrectionRequest) error
	GetByID(ctx context.Context, id string) (*domain.CorrectionRequest, error)
	// List returns an organization's requests, newest first. Empty userID
	// or status matches all.
	List(ctx context.Context, orgID, userID string, status domain.CorrectionStatus) ([]domain.CorrectionRequest, error)
	// Resolve records the decision on a pending request. A request that is
	// no longer pending fails with ErrNotFound.
	Resolve(ctx context.Context, c *domain.CorrectionRequest) error
}

type ApprovalRepo interface {
	// Upsert replaces any earlier review of the same user and work date.
	Upsert(ctx context.Context, a *domain.TimesheetApproval) error
	Get(ctx context.Context, userID, orgID, workDate string) (*domain.TimesheetApproval, error)
	// ListRange returns approvals with fromDate <= work_date <= toDate.
	ListRange(ctx context.Context, userID, orgID, fromDate, toDate string) ([]domain.TimesheetApproval, error)
}
