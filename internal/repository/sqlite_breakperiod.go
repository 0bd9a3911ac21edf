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

const breakPeriodColumns = `id, session_id, type, started_at, ended_at`

// SQLiteBreakPeriodRepo implements BreakPeriodRepo using a SQLite database.
type SQLiteBreakPeriodRepo struct {
	db db.DBTX
}

func NewSQLiteBreakPeriodRepo(db db.DBTX) *SQLiteBreakPeriodRepo {
	return &SQLiteBreakPeriodRepo{db: db}
}

func (r *SQLiteBreakPeriodRepo) Create(ctx context.Context, b *domain.BreakPeriod) error {
	query := `INSERT INTO break_periods (` + breakPeriodColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.SessionID,
		string(b.Type),
		formatTime(b.StartedAt),
		nullableTimeToString(b.EndedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting break period: %w", ErrConflict)
		}
		return fmt.Errorf("inserting break period: %w", err)
	}
	return nil
}

func (r *SQLiteBreakPeriodRepo) Close(ctx context.Context, id string, endedAt time.Time) error {
	query := `UPDATE break_periods SET ended_at = ? WHERE id = ? AND ended_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(endedAt), id)
	if err != nil {
		return fmt.Errorf("closing break period: %w", err)
	}
	return expectOneRow(res, "closing break period")
}

func (r *SQLiteBreakPeriodRepo) GetOpenBySession(ctx context.Context, sessionID string) (*domain.BreakPeriod, error) {
	query := `SELECT ` + breakPeriodColumns + ` FROM break_periods
		WHERE session_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1`
	b, err := scanBreakPeriodRow(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("break period: %w", ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBreakPeriodRepo) ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.BreakPeriod, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(sessionIDs)
	query := `SELECT ` + breakPeriodColumns + ` FROM break_periods
		WHERE session_id IN (` + in + `)
		ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing break periods: %w", err)
	}
	defer rows.Close()

	var breaks []domain.BreakPeriod
	for rows.Next() {
		b, err := scanBreakPeriodRow(rows)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating break periods: %w", err)
	}
	return breaks, nil
}

func scanBreakPeriodRow(row rowScanner) (*domain.BreakPeriod, error) {
	var b domain.BreakPeriod
	var typ, startedStr string
	var ended sql.NullString

	if err := row.Scan(&b.ID, &b.SessionID, &typ, &startedStr, &ended); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning break period: %w", err)
	}

	var err error
	b.Type = domain.BreakType(typ)
	if b.StartedAt, err = parseTime(startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if b.EndedAt, err = parseNullableTime(ended); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	return &b, nil
}
