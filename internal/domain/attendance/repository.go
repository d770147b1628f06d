package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// The (employee_id, date) unique constraint is the load-bearing
// invariant: Create must surface a conflict as ErrDuplicateRecord so
// concurrent triggers can fall back to the update path.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord when a
	// row for (employee, date) already exists.
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// GetByEmployeeAndDate returns the record for (employee, date), or
	// nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)

	// Update rewrites the mutable fields of an existing record.
	Update(ctx context.Context, record AttendanceRecord) error

	// ListForDate returns every record for date.
	ListForDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error)

	// ListMissingCheckIn returns records for date, belonging to active
	// employees, where no check-in was ever captured.
	ListMissingCheckIn(ctx context.Context, date time.Time) ([]AttendanceRecord, error)

	// ListOpenCheckOuts returns records for date with a check-in but no
	// check-out.
	ListOpenCheckOuts(ctx context.Context, date time.Time) ([]AttendanceRecord, error)

	// ListByLeaveID returns records linked to the given leave request.
	ListByLeaveID(ctx context.Context, leaveID string) ([]AttendanceRecord, error)
}
