package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

const workSessionColumns = `id, user_id, organization_id, clock_in_at, clock_out_at, notes, auto_closed, created_at`

// SQLiteWorkSessionRepo implements WorkSessionRepo using a SQLite database.
type SQLiteWorkSessionRepo struct {
	db db.DBTX
}

func NewSQLiteWorkSessionRepo(db db.DBTX) *SQLiteWorkSessionRepo {
	return &SQLiteWorkSessionRepo{db: db}
}

func (r *SQLiteWorkSessionRepo) Create(ctx context.Context, s *domain.WorkSession) error {
	query := `INSERT INTO work_sessions (` + workSessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.OrganizationID,
		formatTime(s.ClockInAt),
		nullableTimeToString(s.ClockOutAt),
		s.Notes,
		boolToInt(s.AutoClosed),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting work session: %w", ErrConflict)
		}
		return fmt.Errorf("inserting work session: %w", err)
	}
	return nil
}

func (r *SQLiteWorkSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	query := `SELECT ` + workSessionColumns + ` FROM work_sessions WHERE id = ?`
	return scanWorkSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkSessionRepo) GetOpen(ctx context.Context, userID, orgID string) (*domain.WorkSession, error) {
	query := `SELECT ` + workSessionColumns + ` FROM work_sessions
		WHERE user_id = ? AND organization_id = ? AND clock_out_at IS NULL
		ORDER BY clock_in_at DESC LIMIT 1`
	return scanWorkSession(r.db.QueryRowContext(ctx, query, userID, orgID))
}

func (r *SQLiteWorkSessionRepo) Close(ctx context.Context, id string, clockOutAt time.Time, notes string) error {
	query := `UPDATE work_sessions SET clock_out_at = ?, notes = ?
		WHERE id = ? AND clock_out_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(clockOutAt), notes, id)
	if err != nil {
		return fmt.Errorf("closing work session: %w", err)
	}
	return expectOneRow(res, "closing work session")
}

func (r *SQLiteWorkSessionRepo) MarkAutoClosed(ctx context.Context, id string, clockOutAt time.Time, notes string) error {
	query := `UPDATE work_sessions SET clock_out_at = ?, notes = ?, auto_closed = 1
		WHERE id = ? AND clock_out_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(clockOutAt), notes, id)
	if err != nil {
		return fmt.Errorf("auto-closing work session: %w", err)
	}
	return expectOneRow(res, "auto-closing work session")
}

func (r *SQLiteWorkSessionRepo) Correct(ctx context.Context, id string, clockInAt, clockOutAt time.Time, notes string) error {
	query := `UPDATE work_sessions SET clock_in_at = ?, clock_out_at = ?, notes = ?, auto_closed = 0
		WHERE id = ? AND clock_out_at IS NOT NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(clockInAt), formatTime(clockOutAt), notes, id)
	if err != nil {
		return fmt.Errorf("correcting work session: %w", err)
	}
	return expectOneRow(res, "correcting work session")
}

func (r *SQLiteWorkSessionRepo) ListOverlapping(ctx context.Context, userID, orgID string, from, to time.Time) ([]domain.WorkSession, error) {
	query := `SELECT ` + workSessionColumns + ` FROM work_sessions
		WHERE user_id = ? AND organization_id = ?
		  AND clock_in_at < ?
		  AND (clock_out_at IS NULL OR clock_out_at > ?)
		ORDER BY clock_in_at`
	rows, err := r.db.QueryContext(ctx, query, userID, orgID, formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("listing overlapping work sessions: %w", err)
	}
	defer rows.Close()
	return scanWorkSessions(rows)
}

func (r *SQLiteWorkSessionRepo) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]domain.WorkSession, error) {
	query := `SELECT ` + workSessionColumns + ` FROM work_sessions
		WHERE clock_out_at IS NULL AND clock_in_at <= ?
		ORDER BY clock_in_at`
	rows, err := r.db.QueryContext(ctx, query, formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("listing stale work sessions: %w", err)
	}
	defer rows.Close()
	return scanWorkSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkSession(row *sql.Row) (*domain.WorkSession, error) {
	s, err := scanWorkSessionRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work session: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func scanWorkSessions(rows *sql.Rows) ([]domain.WorkSession, error) {
	var sessions []domain.WorkSession
	for rows.Next() {
		s, err := scanWorkSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work sessions: %w", err)
	}
	return sessions, nil
}

func scanWorkSessionRow(row rowScanner) (*domain.WorkSession, error) {
	var s domain.WorkSession
	var clockInStr, createdAtStr string
	var clockOut sql.NullString
	var autoClosed int

	if err := row.Scan(&s.ID, &s.UserID, &s.OrganizationID, &clockInStr, &clockOut, &s.Notes, &autoClosed, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work session: %w", err)
	}

	var err error
	if s.ClockInAt, err = parseTime(clockInStr); err != nil {
		return nil, fmt.Errorf("parsing clock_in_at: %w", err)
	}
	if s.ClockOutAt, err = parseNullableTime(clockOut); err != nil {
		return nil, fmt.Errorf("parsing clock_out_at: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	s.AutoClosed = intToBool(autoClosed)
	return &s, nil
}
