package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
)

// HandleLeaveRevoked implements attendance.EngineService. Called after
// an approval is withdrawn: every record still pointing at the request
// is unlinked, then re-decided by date. Past and current dates without
// a check-in finalize as unexcused; future dates and records with a
// physical check-in reset to the pre-decision state so the normal flow
// re-grades them.
func (s *EngineServiceImpl) HandleLeaveRevoked(ctx context.Context, leaveID string) (attendance.RevokeResult, error) {
	result := attendance.RevokeResult{LeaveID: leaveID}

	request, err := s.leaveRepo.GetByID(ctx, leaveID)
	if err != nil {
		return result, fmt.Errorf("failed to load leave request %s: %w", leaveID, err)
	}

	if request.Status == leave.RequestStatusApproved {
		return result, fmt.Errorf("%w: leave request %s is still approved", leave.ErrLeaveNotApproved, leaveID)
	}

	records, err := s.attendanceRepo.ListByLeaveID(ctx, leaveID)
	if err != nil {
		return result, fmt.Errorf("failed to list records linked to leave %s: %w", leaveID, err)
	}

	today := normalizeDate(time.Now().In(s.loc))

	for _, record := range records {
		record := record
		if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.revokeRecord(txCtx, record, today, &result)
		}); err != nil {
			slog.Error("Failed to unlink revoked leave from attendance record",
				"employee_id", record.EmployeeID,
				"date", record.Date.Format(dateLayout),
				"leave_id", leaveID,
				"error", err)
		}
	}

	s.audit(ctx, audit.EventRevoke, fmt.Sprintf(
		"Handled revocation of leave %s: unlinked=%d finalized=%d reset=%d",
		leaveID, result.Unlinked, result.Finalized, result.Reset))

	slog.Info("Leave revocation handled",
		"leave_id", leaveID,
		"unlinked", result.Unlinked,
		"finalized", result.Finalized,
		"reset", result.Reset)

	return result, nil
}

func (s *EngineServiceImpl) revokeRecord(ctx context.Context, record attendance.AttendanceRecord, today time.Time, result *attendance.RevokeResult) error {
	record.LeaveID = nil
	date := normalizeDate(record.Date)

	switch {
	case record.HasCheckedIn():
		// The employee physically acted; drop the leave-derived statuses
		// and let the check-in flow's grading stand on re-evaluation.
		record.CheckInStatus = attendance.NotYetRecorded()
		record.CheckOutStatus = attendance.NotYetRecorded()
		record.Trail = record.Trail.Append(time.Now(), attendance.ActorRevocation,
			"leave revoked: unlinked, statuses pending re-evaluation")
		result.Reset++
	case date.After(today):
		record.CheckInStatus = attendance.NotYetRecorded()
		record.CheckOutStatus = attendance.NotYetRecorded()
		record.Trail = record.Trail.Append(time.Now(), attendance.ActorRevocation,
			"leave revoked: reset to placeholder")
		result.Reset++
	default:
		unexcused := attendance.Unexcused()
		record.CheckInStatus = unexcused
		record.CheckOutStatus = unexcused
		record.Trail = record.Trail.Append(time.Now(), attendance.ActorRevocation,
			"leave revoked: no check-in, finalized as unexcused")
		result.Finalized++
	}

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return err
	}
	result.Unlinked++
	return nil
}
