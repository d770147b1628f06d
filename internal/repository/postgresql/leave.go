package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `
	id, employee_id, start_date, end_date, kind, status,
	reason, approved_by, approved_at, created_at, updated_at
`

func scanLeave(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.StartDate, &lr.EndDate, &lr.Kind, &lr.Status,
		&lr.Reason, &lr.ApprovedBy, &lr.ApprovedAt, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE id = $1
	`

	lr, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return lr, nil
}

// FindApprovedForDate implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) FindApprovedForDate(ctx context.Context, employeeID string, date time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND $3::date BETWEEN start_date AND end_date
		ORDER BY approved_at DESC NULLS LAST, created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID, leave.RequestStatusApproved, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find approved leave: %w", err)
	}
	defer rows.Close()

	return collectLeave(rows)
}

// ListApprovedCovering implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE status = $1
		  AND $2::date BETWEEN start_date AND end_date
		ORDER BY employee_id, approved_at DESC NULLS LAST
	`

	rows, err := q.Query(ctx, query, leave.RequestStatusApproved, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave covering date: %w", err)
	}
	defer rows.Close()

	return collectLeave(rows)
}

// ExpireStalePending implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, updated_at = NOW()
		WHERE status = $2
		  AND end_date < $3::date
	`

	tag, err := q.Exec(ctx, query, leave.RequestStatusExpired, leave.RequestStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale pending leave: %w", err)
	}

	return tag.RowsAffected(), nil
}

func collectLeave(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
