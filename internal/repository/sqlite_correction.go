package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

const correctionColumns = `id, user_id, organization_id, session_id, original_clock_in, original_clock_out,
	proposed_clock_in, proposed_clock_out, reason, status, reviewer_id, review_notes, reviewed_at, requested_at`

// SQLiteCorrectionRepo implements CorrectionRepo using a SQLite database.
type SQLiteCorrectionRepo struct {
	db db.DBTX
}

func NewSQLiteCorrectionRepo(db db.DBTX) *SQLiteCorrectionRepo {
	return &SQLiteCorrectionRepo{db: db}
}

func (r *SQLiteCorrectionRepo) Create(ctx context.Context, c *domain.CorrectionRequest) error {
	query := `INSERT INTO correction_requests (` + correctionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.OrganizationID,
		c.SessionID,
		nullableTimeToString(c.OriginalClockIn),
		nullableTimeToString(c.OriginalClockOut),
		formatTime(c.ProposedClockIn),
		formatTime(c.ProposedClockOut),
		c.Reason,
		string(c.Status),
		c.ReviewerID,
		c.ReviewNotes,
		nullableTimeToString(c.ReviewedAt),
		formatTime(c.RequestedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting correction request: %w", err)
	}
	return nil
}

func (r *SQLiteCorrectionRepo) GetByID(ctx context.Context, id string) (*domain.CorrectionRequest, error) {
	query := `SELECT ` + correctionColumns + ` FROM correction_requests WHERE id = ?`
	c, err := scanCorrectionRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("correction request %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCorrectionRepo) List(ctx context.Context, orgID, userID string, status domain.CorrectionStatus) ([]domain.CorrectionRequest, error) {
	query := `SELECT ` + correctionColumns + ` FROM correction_requests
		WHERE organization_id = ?
		  AND (? = '' OR user_id = ?)
		  AND (? = '' OR status = ?)
		ORDER BY requested_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, orgID, userID, userID, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("listing correction requests: %w", err)
	}
	defer rows.Close()

	var out []domain.CorrectionRequest
	for rows.Next() {
		c, err := scanCorrectionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating correction requests: %w", err)
	}
	return out, nil
}

func (r *SQLiteCorrectionRepo) Resolve(ctx context.Context, c *domain.CorrectionRequest) error {
	query := `UPDATE correction_requests
		SET status = ?, session_id = ?, reviewer_id = ?, review_notes = ?, reviewed_at = ?
		WHERE id = ? AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query,
		string(c.Status),
		c.SessionID,
		c.ReviewerID,
		c.ReviewNotes,
		nullableTimeToString(c.ReviewedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("resolving correction request: %w", err)
	}
	return expectOneRow(res, "resolving correction request")
}

func scanCorrectionRow(row rowScanner) (*domain.CorrectionRequest, error) {
	var c domain.CorrectionRequest
	var status, proposedIn, proposedOut, requestedStr string
	var originalIn, originalOut, reviewedStr sql.NullString
	if err := row.Scan(
		&c.ID, &c.UserID, &c.OrganizationID, &c.SessionID,
		&originalIn, &originalOut, &proposedIn, &proposedOut,
		&c.Reason, &status, &c.ReviewerID, &c.ReviewNotes, &reviewedStr, &requestedStr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning correction request: %w", err)
	}
	c.Status = domain.CorrectionStatus(status)

	var err error
	if c.OriginalClockIn, err = parseNullableTime(originalIn); err != nil {
		return nil, fmt.Errorf("parsing original_clock_in: %w", err)
	}
	if c.OriginalClockOut, err = parseNullableTime(originalOut); err != nil {
		return nil, fmt.Errorf("parsing original_clock_out: %w", err)
	}
	if c.ProposedClockIn, err = parseTime(proposedIn); err != nil {
		return nil, fmt.Errorf("parsing proposed_clock_in: %w", err)
	}
	if c.ProposedClockOut, err = parseTime(proposedOut); err != nil {
		return nil, fmt.Errorf("parsing proposed_clock_out: %w", err)
	}
	if c.ReviewedAt, err = parseNullableTime(reviewedStr); err != nil {
		return nil, fmt.Errorf("parsing reviewed_at: %w", err)
	}
	if c.RequestedAt, err = parseTime(requestedStr); err != nil {
		return nil, fmt.Errorf("parsing requested_at: %w", err)
	}
	return &c, nil
}
