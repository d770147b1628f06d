package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, employee_id, date, check_in_at, check_out_at,
	check_in_status, check_out_status, leave_id,
	is_system_generated, trail, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInAt, &rec.CheckOutAt,
		&rec.CheckInStatus, &rec.CheckOutStatus, &rec.LeaveID,
		&rec.IsSystemGenerated, &rec.Trail, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository.
// The ON CONFLICT clause leans on the unique index over
// (employee_id, date): a concurrent insert surfaces as
// ErrDuplicateRecord instead of a duplicate row.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in_at, check_out_at,
			check_in_status, check_out_status, leave_id,
			is_system_generated, trail
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.CheckInAt,
		record.CheckOutAt,
		record.CheckInStatus,
		record.CheckOutStatus,
		record.LeaveID,
		record.IsSystemGenerated,
		record.Trail,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrDuplicateRecord
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing record found
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records SET
			check_in_at = $1,
			check_out_at = $2,
			check_in_status = $3,
			check_out_status = $4,
			leave_id = $5,
			trail = $6,
			updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		record.CheckInAt,
		record.CheckOutAt,
		record.CheckInStatus,
		record.CheckOutStatus,
		record.LeaveID,
		record.Trail,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ListForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForDate(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE date = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// ListMissingCheckIn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListMissingCheckIn(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.check_in_at, a.check_out_at,
			   a.check_in_status, a.check_out_status, a.leave_id,
			   a.is_system_generated, a.trail, a.created_at, a.updated_at
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1
		  AND a.check_in_at IS NULL
		  AND e.active = TRUE
		ORDER BY a.employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list records missing check-in: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// ListOpenCheckOuts implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenCheckOuts(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.check_in_at, a.check_out_at,
			   a.check_in_status, a.check_out_status, a.leave_id,
			   a.is_system_generated, a.trail, a.created_at, a.updated_at
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1
		  AND a.check_in_at IS NOT NULL
		  AND a.check_out_at IS NULL
		  AND e.active = TRUE
		ORDER BY a.employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open check-outs: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// ListByLeaveID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByLeaveID(ctx context.Context, leaveID string) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE leave_id = $1
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records by leave: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]attendance.AttendanceRecord, error) {
	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
