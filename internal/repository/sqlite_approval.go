package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

const approvalColumns = `id, user_id, organization_id, work_date, status, reviewer_id, notes, reviewed_at`

// SQLiteApprovalRepo implements ApprovalRepo using a SQLite database.
type SQLiteApprovalRepo struct {
	db db.DBTX
}

func NewSQLiteApprovalRepo(db db.DBTX) *SQLiteApprovalRepo {
	return &SQLiteApprovalRepo{db: db}
}

func (r *SQLiteApprovalRepo) Upsert(ctx context.Context, a *domain.TimesheetApproval) error {
	query := `INSERT INTO timesheet_approvals (` + approvalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, organization_id, work_date) DO UPDATE SET
			status = excluded.status,
			reviewer_id = excluded.reviewer_id,
			notes = excluded.notes,
			reviewed_at = excluded.reviewed_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.OrganizationID,
		a.WorkDate,
		string(a.Status),
		a.ReviewerID,
		a.Notes,
		formatTime(a.ReviewedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting timesheet approval: %w", err)
	}
	return nil
}

func (r *SQLiteApprovalRepo) Get(ctx context.Context, userID, orgID, workDate string) (*domain.TimesheetApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM timesheet_approvals
		WHERE user_id = ? AND organization_id = ? AND work_date = ?`
	a, err := scanApprovalRow(r.db.QueryRowContext(ctx, query, userID, orgID, workDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("timesheet approval: %w", ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteApprovalRepo) ListRange(ctx context.Context, userID, orgID, fromDate, toDate string) ([]domain.TimesheetApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM timesheet_approvals
		WHERE user_id = ? AND organization_id = ? AND work_date BETWEEN ? AND ?
		ORDER BY work_date`
	rows, err := r.db.QueryContext(ctx, query, userID, orgID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("listing timesheet approvals: %w", err)
	}
	defer rows.Close()

	var out []domain.TimesheetApproval
	for rows.Next() {
		a, err := scanApprovalRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timesheet approvals: %w", err)
	}
	return out, nil
}

func scanApprovalRow(row rowScanner) (*domain.TimesheetApproval, error) {
	var a domain.TimesheetApproval
	var status, reviewedStr string
	if err := row.Scan(&a.ID, &a.UserID, &a.OrganizationID, &a.WorkDate, &status, &a.ReviewerID, &a.Notes, &reviewedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning timesheet approval: %w", err)
	}
	a.Status = domain.ReviewStatus(status)

	var err error
	if a.ReviewedAt, err = parseTime(reviewedStr); err != nil {
		return nil, fmt.Errorf("parsing reviewed_at: %w", err)
	}
	return &a, nil
}
