package leave

import (
	"context"
	"time"
)

// LeaveRepository defines read access to the leave store. The engine
// never mutates leave requests except for pending-request expiry.
type LeaveRepository interface {
	// GetByID retrieves a leave request by ID
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// FindApprovedForDate returns every approved leave request for the
	// employee whose range covers date, most recently approved first.
	// More than one result is a data-quality anomaly the caller must
	// resolve deterministically.
	FindApprovedForDate(ctx context.Context, employeeID string, date time.Time) ([]LeaveRequest, error)

	// ListApprovedCovering returns all approved leave requests, for any
	// employee, whose range covers date.
	ListApprovedCovering(ctx context.Context, date time.Time) ([]LeaveRequest, error)

	// ExpireStalePending marks pending requests whose end date is before
	// cutoff as expired and returns the number of rows touched.
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// Lookup is the single-result view the engine consumes: the one
// approved leave for (employee, date), or nil.
type Lookup interface {
	FindApprovedLeave(ctx context.Context, employeeID string, date time.Time) (*LeaveRequest, error)
}
