package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
)

type LookupImpl struct {
	leaveRepo leave.LeaveRepository
}

func NewLookup(leaveRepo leave.LeaveRepository) leave.Lookup {
	return &LookupImpl{leaveRepo: leaveRepo}
}

// FindApprovedLeave implements leave.Lookup. Multiple approved leaves
// covering the same (employee, date) is a data-quality anomaly: the
// most recently approved one wins and the overlap is logged, never
// surfaced as an error.
func (l *LookupImpl) FindApprovedLeave(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error) {
	requests, err := l.leaveRepo.FindApprovedForDate(ctx, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up approved leave: %w", err)
	}

	if len(requests) == 0 {
		return nil, nil
	}

	if len(requests) > 1 {
		slog.Warn("Multiple approved leave requests cover the same date",
			"employee_id", employeeID,
			"date", date.Format("2006-01-02"),
			"count", len(requests),
			"chosen_leave_id", requests[0].ID)
	}

	// Repository orders by approval recency; the first row is the pick.
	chosen := requests[0]
	return &chosen, nil
}
