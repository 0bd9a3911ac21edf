package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_sessions (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		clock_in_at     TEXT NOT NULL,
		clock_out_at    TEXT,
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		CHECK(clock_out_at IS NULL OR clock_out_at >= clock_in_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_sessions_user ON work_sessions(user_id, clock_in_at)`,

	// Replaced by idx_work_sessions_one_open_per_org below.
	`DROP INDEX IF EXISTS idx_work_sessions_one_open`,

	// At most one open session per user within an organization.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_sessions_one_open_per_org
		ON work_sessions(user_id, organization_id) WHERE clock_out_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS break_periods (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES work_sessions(id) ON DELETE CASCADE,
		type       TEXT NOT NULL CHECK(type IN ('coffee','rest','lunch')),
		started_at TEXT NOT NULL,
		ended_at   TEXT,
		CHECK(ended_at IS NULL OR ended_at >= started_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_break_periods_session ON break_periods(session_id, started_at)`,

	// At most one open break per session.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_break_periods_one_open
		ON break_periods(session_id) WHERE ended_at IS NULL`,

	// Sessions closed by the stale sweeper rather than by the worker.
	`ALTER TABLE work_sessions ADD COLUMN auto_closed INTEGER NOT NULL DEFAULT 0`,

	`CREATE TABLE IF NOT EXISTS timesheet_approvals (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		work_date       TEXT NOT NULL,
		status          TEXT NOT NULL CHECK(status IN ('approved','rejected')),
		reviewer_id     TEXT NOT NULL,
		notes           TEXT NOT NULL DEFAULT '',
		reviewed_at     TEXT NOT NULL,
		UNIQUE(user_id, organization_id, work_date)
	)`,

	// session_id is empty until approval when the request adds a session.
	`CREATE TABLE IF NOT EXISTS correction_requests (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		organization_id    TEXT NOT NULL,
		session_id         TEXT NOT NULL DEFAULT '',
		original_clock_in  TEXT,
		original_clock_out TEXT,
		proposed_clock_in  TEXT NOT NULL,
		proposed_clock_out TEXT NOT NULL,
		reason             TEXT NOT NULL,
		status             TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','approved','rejected')),
		reviewer_id        TEXT NOT NULL DEFAULT '',
		review_notes       TEXT NOT NULL DEFAULT '',
		reviewed_at        TEXT,
		requested_at       TEXT NOT NULL,
		CHECK(proposed_clock_out > proposed_clock_in),
		CHECK(reason <> '')
	)`,

	`CREATE INDEX IF NOT EXISTS idx_correction_requests_org
		ON correction_requests(organization_id, status, requested_at)`,
}
