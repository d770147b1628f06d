package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
)

// FinalizeDate implements attendance.EngineService. Records still
// lacking a check-in become terminal: on leave when an approved
// request covers the date, unexcused otherwise.
func (s *EngineServiceImpl) FinalizeDate(ctx context.Context, date time.Time) (attendance.FinalizeResult, error) {
	date = normalizeDate(date)
	result := attendance.FinalizeResult{Date: date.Format(dateLayout)}

	resolution, err := s.resolver.Resolve(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to resolve calendar for %s: %w", result.Date, err)
	}

	if !resolution.IsWorkingDay {
		result.SkippedNonWorkingDay = true
		result.Reason = resolution.Reason
		slog.Info("Skipping end-of-day finalization on non-working day",
			"date", result.Date, "reason", resolution.Reason)
		s.audit(ctx, audit.EventFinalize,
			fmt.Sprintf("Skipped finalization for %s: %s", result.Date, resolution.Reason))
		return result, nil
	}

	records, err := s.attendanceRepo.ListMissingCheckIn(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to list records without check-in for %s: %w", result.Date, err)
	}

	for _, record := range records {
		record := record
		if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.finalizeRecord(txCtx, record, date, &result)
		}); err != nil {
			slog.Error("Failed to finalize attendance record",
				"employee_id", record.EmployeeID, "date", result.Date, "error", err)
			result.Errors = append(result.Errors, attendance.EmployeeError{
				EmployeeID: record.EmployeeID,
				Error:      err.Error(),
			})
		}
	}

	s.audit(ctx, audit.EventFinalize, fmt.Sprintf(
		"Finalized attendance for %s: updated=%d leave=%d unexcused=%d errors=%d",
		result.Date, result.Updated, result.LeaveCount, result.UnexcusedCount, len(result.Errors)))

	slog.Info("End-of-day finalization finished",
		"date", result.Date,
		"updated", result.Updated,
		"leave_count", result.LeaveCount,
		"unexcused_count", result.UnexcusedCount,
		"errors", len(result.Errors))

	return result, nil
}

func (s *EngineServiceImpl) finalizeRecord(ctx context.Context, record attendance.AttendanceRecord, date time.Time, result *attendance.FinalizeResult) error {
	// An existing link is only trusted after verifying the request is
	// still approved; a stale link is dropped and re-resolved.
	if record.LeaveID != nil {
		linked, err := s.leaveRepo.GetByID(ctx, *record.LeaveID)
		if err != nil && !errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return err
		}
		if err == nil && linked.Status == leave.RequestStatusApproved {
			status := leaveStatus(&linked)
			record.CheckInStatus = status
			record.CheckOutStatus = status
			record.Trail = record.Trail.Append(time.Now(), attendance.ActorFinalizer,
				fmt.Sprintf("end of day: confirmed approved leave (%s)", linked.Kind))
			if err := s.attendanceRepo.Update(ctx, record); err != nil {
				return err
			}
			result.Updated++
			result.LeaveCount++
			return nil
		}

		slog.Warn("Attendance record links a leave request that is no longer approved",
			"employee_id", record.EmployeeID,
			"date", date.Format(dateLayout),
			"leave_id", *record.LeaveID)
		record.LeaveID = nil
	}

	approvedLeave, err := s.leaveLookup.FindApprovedLeave(ctx, record.EmployeeID, date)
	if err != nil {
		return err
	}

	if approvedLeave != nil {
		status := leaveStatus(approvedLeave)
		record.LeaveID = &approvedLeave.ID
		record.CheckInStatus = status
		record.CheckOutStatus = status
		record.Trail = record.Trail.Append(time.Now(), attendance.ActorFinalizer,
			fmt.Sprintf("end of day: linked approved leave (%s)", approvedLeave.Kind))
		if err := s.attendanceRepo.Update(ctx, record); err != nil {
			return err
		}
		result.Updated++
		result.LeaveCount++
		return nil
	}

	unexcused := attendance.Unexcused()
	record.CheckInStatus = unexcused
	record.CheckOutStatus = unexcused
	record.Trail = record.Trail.Append(time.Now(), attendance.ActorFinalizer,
		"end of day: no check-in and no approved leave")
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return err
	}
	result.Updated++
	result.UnexcusedCount++
	return nil
}

// CloseOpenCheckOuts implements attendance.EngineService. A check-in
// without a check-out at end of day is closed as not returned; the
// check-in status is left as the check-in flow graded it.
func (s *EngineServiceImpl) CloseOpenCheckOuts(ctx context.Context, date time.Time) (attendance.CloseOutResult, error) {
	date = normalizeDate(date)
	result := attendance.CloseOutResult{Date: date.Format(dateLayout)}

	records, err := s.attendanceRepo.ListOpenCheckOuts(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to list open check-outs for %s: %w", result.Date, err)
	}

	for _, record := range records {
		record := record
		if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			record.CheckOutStatus = attendance.NotReturned()
			record.Trail = record.Trail.Append(time.Now(), attendance.ActorFinalizer,
				"end of day: check-in without check-out")
			return s.attendanceRepo.Update(txCtx, record)
		}); err != nil {
			slog.Error("Failed to close open check-out",
				"employee_id", record.EmployeeID, "date", result.Date, "error", err)
			result.Errors = append(result.Errors, attendance.EmployeeError{
				EmployeeID: record.EmployeeID,
				Error:      err.Error(),
			})
			continue
		}
		result.Closed++
	}

	slog.Info("Open check-out close-out finished",
		"date", result.Date, "closed", result.Closed, "errors", len(result.Errors))

	return result, nil
}
