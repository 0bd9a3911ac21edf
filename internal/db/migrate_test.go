package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-06-16T09:00:00.000Z"

func insertSession(t *testing.T, db *sql.DB, id, user string, clockOut any) error {
	t.Helper()
	return insertOrgSession(t, db, id, user, "org-1", clockOut)
}

func insertOrgSession(t *testing.T, db *sql.DB, id, user, org string, clockOut any) error {
	t.Helper()
	_, err := db.Exec(`INSERT INTO work_sessions (id, user_id, organization_id, clock_in_at, clock_out_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, id, user, org, ts, clockOut, ts)
	return err
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"work_sessions", "break_periods", "timesheet_approvals", "correction_requests"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_work_sessions_user",
		"idx_work_sessions_one_open_per_org",
		"idx_break_periods_session",
		"idx_break_periods_one_open",
		"idx_correction_requests_org",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeOnFile(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "shiftclock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_OneOpenSessionPerUser(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, insertSession(t, db, "s1", "u1", nil))
	assert.Error(t, insertSession(t, db, "s2", "u1", nil), "second open session should violate the partial unique index")

	// Closed sessions and other users are unaffected.
	assert.NoError(t, insertSession(t, db, "s3", "u1", "2025-06-16T10:00:00.000Z"))
	assert.NoError(t, insertSession(t, db, "s4", "u2", nil))
}

func TestMigrate_OpenSessionScopedByOrganization(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, insertOrgSession(t, db, "s1", "u1", "org-1", nil))
	assert.NoError(t, insertOrgSession(t, db, "s2", "u1", "org-2", nil),
		"the same user may hold an open session in another organization")
	assert.Error(t, insertOrgSession(t, db, "s3", "u1", "org-2", nil))
}

// A database carrying the user-wide open-session index is moved to the
// per-organization index on open.
func TestMigrate_UpgradeReplacesUserWideOpenIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE UNIQUE INDEX idx_work_sessions_one_open ON work_sessions(user_id) WHERE clock_out_at IS NULL`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_work_sessions_one_open'`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, insertOrgSession(t, db, "s1", "u1", "org-1", nil))
	assert.NoError(t, insertOrgSession(t, db, "s2", "u1", "org-2", nil))
}

func TestMigrate_OneOpenBreakPerSession(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, insertSession(t, db, "s1", "u1", nil))

	insertBreak := func(id string, ended any) error {
		_, err := db.Exec(`INSERT INTO break_periods (id, session_id, type, started_at, ended_at)
			VALUES (?, 's1', 'coffee', ?, ?)`, id, ts, ended)
		return err
	}
	require.NoError(t, insertBreak("b1", nil))
	assert.Error(t, insertBreak("b2", nil))
	assert.NoError(t, insertBreak("b3", "2025-06-16T09:10:00.000Z"))
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)

	err := insertSession(t, db, "s1", "u1", "2025-06-16T08:00:00.000Z")
	assert.Error(t, err, "clock-out before clock-in should be rejected")

	require.NoError(t, insertSession(t, db, "s2", "u1", nil))
	_, err = db.Exec(`INSERT INTO break_periods (id, session_id, type, started_at) VALUES ('b1', 's2', 'nap', ?)`, ts)
	assert.Error(t, err, "unknown break type should be rejected")

	_, err = db.Exec(`INSERT INTO timesheet_approvals (id, user_id, organization_id, work_date, status, reviewer_id, reviewed_at)
		VALUES ('a1', 'u1', 'org-1', '2025-06-16', 'pending', 'm1', ?)`, ts)
	assert.Error(t, err, "unknown review status should be rejected")

	_, err = db.Exec(`INSERT INTO correction_requests (id, user_id, organization_id, proposed_clock_in, proposed_clock_out, reason, requested_at)
		VALUES ('c1', 'u1', 'org-1', ?, ?, 'forgot', ?)`, ts, ts, ts)
	assert.Error(t, err, "an empty correction window should be rejected")

	_, err = db.Exec(`INSERT INTO correction_requests (id, user_id, organization_id, proposed_clock_in, proposed_clock_out, reason, requested_at)
		VALUES ('c2', 'u1', 'org-1', ?, '2025-06-16T17:00:00.000Z', '', ?)`, ts, ts)
	assert.Error(t, err, "a correction without a reason should be rejected")
}

func TestMigrate_BreaksCascadeWithSession(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, insertSession(t, db, "s1", "u1", nil))
	_, err := db.Exec(`INSERT INTO break_periods (id, session_id, type, started_at) VALUES ('b1', 's1', 'rest', ?)`, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM work_sessions WHERE id = 's1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM break_periods`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_BreakRequiresSession(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO break_periods (id, session_id, type, started_at) VALUES ('b1', 'missing', 'rest', ?)`, ts)
	assert.Error(t, err)
}

func TestMigrate_AutoClosedDefaultsToZero(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, insertSession(t, db, "s1", "u1", nil))

	var autoClosed int
	require.NoError(t, db.QueryRow(`SELECT auto_closed FROM work_sessions WHERE id = 's1'`).Scan(&autoClosed))
	assert.Zero(t, autoClosed)
}

// A database created before auto_closed existed picks the column up on open.
func TestMigrate_UpgradeAddsAutoClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`CREATE TABLE work_sessions (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		clock_in_at     TEXT NOT NULL,
		clock_out_at    TEXT,
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO work_sessions (id, user_id, organization_id, clock_in_at, created_at)
		VALUES ('old', 'u1', 'org-1', ?, ?)`, ts, ts)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var autoClosed int
	require.NoError(t, db.QueryRow(`SELECT auto_closed FROM work_sessions WHERE id = 'old'`).Scan(&autoClosed))
	assert.Zero(t, autoClosed)
}
