package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/repository"
	"github.com/alexanderramin/shiftclock/internal/testutil"
)

// Monday 2025-06-16 09:00 UTC.
var start = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

var worker = app.Actor{UserID: testutil.TestUserID, OrganizationID: testutil.TestOrgID}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

type env struct {
	db       *sql.DB
	clock    *testutil.Clock
	opts     Options
	sessions *repository.SQLiteWorkSessionRepo
	breaks   *repository.SQLiteBreakPeriodRepo
	obs      *recordingObserver
}

func newEnv(t *testing.T, database *sql.DB, tweak ...func(*Options)) *env {
	t.Helper()
	clock := testutil.NewClock(start)
	opts := Options{
		Location:           time.UTC,
		MaxSessionDuration: DefaultMaxSessionDuration,
		Now:                clock.Now,
	}
	for _, f := range tweak {
		f(&opts)
	}
	return &env{
		db:       database,
		clock:    clock,
		opts:     opts,
		sessions: repository.NewSQLiteWorkSessionRepo(database),
		breaks:   repository.NewSQLiteBreakPeriodRepo(database),
		obs:      &recordingObserver{},
	}
}

func (e *env) tracking(uow db.UnitOfWork) TrackingService {
	if uow == nil {
		uow = testutil.NewTestUoW(e.db)
	}
	return NewTrackingService(e.sessions, e.breaks, uow, e.opts, e.obs)
}

func (e *env) reports() ReportService {
	return NewReportService(e.sessions, e.breaks, repository.NewSQLiteApprovalRepo(e.db), e.opts, e.obs)
}
