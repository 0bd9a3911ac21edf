package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
	"github.com/alexanderramin/shiftclock/internal/service"
	"github.com/alexanderramin/shiftclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2025-06-16 09:00 UTC.
var start = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

type apiEnv struct {
	handler http.Handler
	clock   *testutil.Clock
	rec     *fakeRecorder
}

func newAPIEnv(t *testing.T, tweak ...func(*Deps)) *apiEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := testutil.NewClock(start)
	opts := service.Options{Location: time.UTC, MaxSessionDuration: service.DefaultMaxSessionDuration, Now: clock.Now}

	sessions := repository.NewSQLiteWorkSessionRepo(database)
	breaks := repository.NewSQLiteBreakPeriodRepo(database)
	uow := testutil.NewTestUoW(database)
	rec := &fakeRecorder{}

	deps := Deps{
		Tracking:    service.NewTrackingService(sessions, breaks, uow, opts),
		Reports:     service.NewReportService(sessions, breaks, repository.NewSQLiteApprovalRepo(database), opts),
		Approvals:   service.NewApprovalService(uow, opts),
		Corrections: service.NewCorrectionService(sessions, repository.NewSQLiteCorrectionRepo(database), uow, opts),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Recorder:    rec,
		Ping:        database.PingContext,
	}
	for _, f := range tweak {
		f(&deps)
	}
	return &apiEnv{handler: NewRouter(deps), clock: clock, rec: rec}
}

func (e *apiEnv) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if user != "" {
		req.Header.Set(HeaderUserID, user)
		req.Header.Set(HeaderOrganizationID, testutil.TestOrgID)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type fakeRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, method+" "+route)
}

func TestAPI_TrackingFlow(t *testing.T) {
	e := newAPIEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "alice", `{"notes":"opening shift"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decode[contract.Tracking](t, w)
	assert.Equal(t, "working", snap.State.Phase)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "opening shift", snap.Session.Notes)
	assert.Equal(t, []string{"clock_out"}, snap.AllowedEvents)

	e.clock.Advance(125 * time.Minute)
	w = e.do(t, http.MethodGet, "/api/v1/tracking", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode[contract.Tracking](t, w)
	assert.Equal(t, 125, snap.State.WorkElapsedMinutes)
	assert.True(t, snap.Requirements.CanTakeBreak)
	assert.Equal(t, "coffee", snap.Requirements.SuggestedBreakType)

	w = e.do(t, http.MethodPost, "/api/v1/tracking/breaks", "alice", `{"type":"coffee"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap = decode[contract.Tracking](t, w)
	assert.Equal(t, "on_break", snap.State.Phase)
	require.NotNil(t, snap.Break)
	assert.Equal(t, "coffee", snap.Break.Type)

	e.clock.Advance(10 * time.Minute)
	w = e.do(t, http.MethodPost, "/api/v1/tracking/clock-out", "alice", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "on_break", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodPost, "/api/v1/tracking/breaks/resume", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, decode[contract.Tracking](t, w).State.TotalBreakToday)

	w = e.do(t, http.MethodPost, "/api/v1/tracking/clock-out", "alice", `{"notes":"done"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode[contract.Tracking](t, w)
	assert.Equal(t, "idle", snap.State.Phase)
	assert.Equal(t, 125, snap.State.TotalWorkedToday)
}

func TestAPI_TrackingErrors(t *testing.T) {
	e := newAPIEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"clock out while idle", http.MethodPost, "/api/v1/tracking/clock-out", "", http.StatusConflict, "not_active"},
		{"resume without break", http.MethodPost, "/api/v1/tracking/breaks/resume", "", http.StatusConflict, "no_active_break"},
		{"bad break type", http.MethodPost, "/api/v1/tracking/breaks", `{"type":"nap"}`, http.StatusBadRequest, "invalid_break_type"},
		{"malformed body", http.MethodPost, "/api/v1/tracking/clock-in", `{"notes":`, http.StatusBadRequest, "invalid_request"},
		{"unknown field", http.MethodPost, "/api/v1/tracking/clock-in", `{"note":"x"}`, http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, tt.method, tt.path, "bob", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode[contract.Error](t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Category)
			assert.NotEmpty(t, body.Action)
		})
	}
}

func TestAPI_BreakTooEarly(t *testing.T) {
	e := newAPIEnv(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "carol", "").Code)
	e.clock.Advance(30 * time.Minute)

	w := e.do(t, http.MethodPost, "/api/v1/tracking/breaks", "carol", `{"type":"rest"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "break_not_eligible", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "carol", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_active", decode[contract.Error](t, w).Code)
}

func TestAPI_MissingIdentity(t *testing.T) {
	e := newAPIEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking", nil)
	req.Header.Set(HeaderUserID, "alice")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_actor", decode[contract.Error](t, w).Code)
}

func TestAPI_UsersAreIsolated(t *testing.T) {
	e := newAPIEnv(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "alice", "").Code)

	w := e.do(t, http.MethodGet, "/api/v1/tracking", "bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode[contract.Tracking](t, w).State.Phase)
}

func TestAPI_ReportsAndApproval(t *testing.T) {
	e := newAPIEnv(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "alice", "").Code)
	e.clock.Advance(9 * time.Hour)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/tracking/clock-out", "alice", "").Code)

	w := e.do(t, http.MethodGet, "/api/v1/reports/daily?date=2025-06-16", "alice", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	day := decode[contract.DailySummary](t, w)
	assert.Equal(t, 540, day.TotalWorkMinutes)
	assert.Equal(t, 60, day.OvertimeMinutes)
	assert.Nil(t, day.Approval)

	w = e.do(t, http.MethodPut, "/api/v1/approvals/alice/2025-06-16", "alice", `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "self_review", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodPut, "/api/v1/approvals/alice/2025-06-16", "manager", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "reason_required", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodPut, "/api/v1/approvals/alice/2025-06-16", "manager", `{"status":"approved","notes":"ok"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approval := decode[contract.Approval](t, w)
	assert.Equal(t, "approved", approval.Status)
	assert.Equal(t, "manager", approval.ReviewerID)

	w = e.do(t, http.MethodGet, "/api/v1/reports/weekly?week=2025-06-18", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	week := decode[contract.WeeklySummary](t, w)
	assert.Equal(t, "2025-06-16", week.WeekStart)
	require.Len(t, week.Days, 7)
	require.NotNil(t, week.Days[0].Approval)
	assert.Equal(t, "approved", week.Days[0].Approval.Status)
	assert.Equal(t, 540, week.TotalWorkMinutes)

	w = e.do(t, http.MethodGet, "/api/v1/reports/daily?date=June+16", "alice", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode[contract.Error](t, w).Code)
}

func TestAPI_Healthz(t *testing.T) {
	e := newAPIEnv(t)
	w := e.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	down := newAPIEnv(t, func(d *Deps) {
		d.Ping = func(context.Context) error { return errors.New("closed") }
	})
	w = down.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAPI_MetricsRouteMounted(t *testing.T) {
	e := newAPIEnv(t, func(d *Deps) {
		d.Metrics = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		})
	})
	w := e.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics\n", w.Body.String())
}

func TestAPI_RecordsRoutePattern(t *testing.T) {
	e := newAPIEnv(t)
	e.do(t, http.MethodPut, "/api/v1/approvals/alice/2025-06-16", "manager", `{"status":"approved"}`)

	e.rec.mu.Lock()
	defer e.rec.mu.Unlock()
	require.Len(t, e.rec.routes, 1)
	assert.Equal(t, "PUT /api/v1/approvals/{userID}/{date}", e.rec.routes[0])
}

func TestAPI_RateLimited(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	t.Cleanup(rl.Stop)
	e := newAPIEnv(t, func(d *Deps) { d.RateLimiter = rl })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/tracking", "alice", "").Code)
	}
	w := e.do(t, http.MethodGet, "/api/v1/tracking", "alice", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decode[contract.Error](t, w).Code)

	// Separate bucket per user.
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/tracking", "bob", "").Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(60, time.Minute)
	t.Cleanup(rl.Stop)
	rl.limiterFor("alice")
	rl.limiterFor("bob")

	rl.cleanup(time.Now().Add(time.Minute))
	assert.Equal(t, 2, rl.Len())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Zero(t, rl.Len())
}

type panickingTracking struct{ app.TrackingUseCase }

func (panickingTracking) Snapshot(context.Context, app.Actor) (*app.TrackingSnapshot, error) {
	panic("boom")
}

func TestAPI_RecoversFromPanic(t *testing.T) {
	var logs bytes.Buffer
	e := newAPIEnv(t, func(d *Deps) {
		d.Tracking = panickingTracking{}
		d.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	})

	w := e.do(t, http.MethodGet, "/api/v1/tracking", "alice", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal", decode[contract.Error](t, w).Code)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestAPI_StorageErrorsAreOpaque(t *testing.T) {
	e := newAPIEnv(t, func(d *Deps) {
		d.Tracking = failingTracking{err: domain.Persistence("create session", errors.New("database is locked"))}
	})

	w := e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "alice", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[contract.Error](t, w)
	assert.Equal(t, "persistence", body.Code)
	assert.NotContains(t, body.Message, "locked")
}

type failingTracking struct {
	app.TrackingUseCase
	err error
}

func (f failingTracking) ClockIn(context.Context, app.Actor, string) (*app.TrackingSnapshot, error) {
	return nil, f.err
}

func TestLoggingMiddleware_Levels(t *testing.T) {
	var logs bytes.Buffer
	e := newAPIEnv(t, func(d *Deps) {
		d.Logger = slog.New(slog.NewJSONHandler(&logs, nil))
	})

	e.do(t, http.MethodPost, "/api/v1/tracking/clock-out", "alice", "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "http_request", line["msg"])
	assert.Equal(t, float64(http.StatusConflict), line["status"])
	assert.Equal(t, "alice", line["user_id"])
	assert.Equal(t, "/api/v1/tracking/clock-out", line["route"])
}

func TestAPI_CorrectionFlow(t *testing.T) {
	e := newAPIEnv(t)
	w := e.do(t, http.MethodPost, "/api/v1/tracking/clock-in", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := decode[contract.Tracking](t, w).Session.ID
	e.clock.Advance(4 * time.Hour)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/tracking/clock-out", "alice", "").Code)
	e.clock.Advance(4 * time.Hour)

	body := `{"session_id":"` + sessionID + `","clock_in":"2025-06-16T08:30:00Z","clock_out":"2025-06-16T13:00:00Z","reason":"badge reader was down"}`
	w = e.do(t, http.MethodPost, "/api/v1/corrections", "alice", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[contract.Correction](t, w)
	assert.Equal(t, "pending", created.Status)
	require.NotNil(t, created.OriginalClockIn)
	assert.True(t, created.OriginalClockIn.Equal(start))

	w = e.do(t, http.MethodPut, "/api/v1/corrections/"+created.ID, "alice", `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "self_review", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodPut, "/api/v1/corrections/"+created.ID, "manager", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "reason_required", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodGet, "/api/v1/corrections?status=pending", "manager", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[contract.CorrectionList](t, w).Corrections, 1)

	w = e.do(t, http.MethodPut, "/api/v1/corrections/"+created.ID, "manager", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approved := decode[contract.Correction](t, w)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "manager", approved.ReviewerID)
	assert.Equal(t, sessionID, approved.SessionID)

	w = e.do(t, http.MethodPut, "/api/v1/corrections/"+created.ID, "manager", `{"status":"approved"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_reviewed", decode[contract.Error](t, w).Code)

	w = e.do(t, http.MethodGet, "/api/v1/reports/daily?date=2025-06-16", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 270, decode[contract.DailySummary](t, w).TotalWorkMinutes)

	w = e.do(t, http.MethodGet, "/api/v1/corrections?user=alice&status=approved", "manager", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[contract.CorrectionList](t, w)
	require.Len(t, list.Corrections, 1)
	assert.Equal(t, created.ID, list.Corrections[0].ID)
}

func TestAPI_CorrectionErrors(t *testing.T) {
	e := newAPIEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"no reason", http.MethodPost, "/api/v1/corrections", `{"clock_in":"2025-06-15T09:00:00Z","clock_out":"2025-06-15T13:00:00Z"}`, http.StatusBadRequest, "reason_required"},
		{"ends in the future", http.MethodPost, "/api/v1/corrections", `{"clock_in":"2025-06-16T09:00:00Z","clock_out":"2025-06-16T13:00:00Z","reason":"x"}`, http.StatusBadRequest, "invalid_correction"},
		{"unknown session", http.MethodPost, "/api/v1/corrections", `{"session_id":"nope","clock_in":"2025-06-15T09:00:00Z","clock_out":"2025-06-15T13:00:00Z","reason":"x"}`, http.StatusNotFound, "session_not_found"},
		{"malformed time", http.MethodPost, "/api/v1/corrections", `{"clock_in":"yesterday","reason":"x"}`, http.StatusBadRequest, "invalid_request"},
		{"unknown request", http.MethodPut, "/api/v1/corrections/nope", `{"status":"approved"}`, http.StatusNotFound, "correction_not_found"},
		{"bad list status", http.MethodGet, "/api/v1/corrections?status=lost", "", http.StatusBadRequest, "invalid_review_status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, tt.method, tt.path, "bob", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode[contract.Error](t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Action)
		})
	}
}
