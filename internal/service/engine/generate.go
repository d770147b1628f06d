package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/domain/employee"
)

// GenerateForDate implements attendance.EngineService.
func (s *EngineServiceImpl) GenerateForDate(ctx context.Context, date time.Time) (attendance.GenerateResult, error) {
	date = normalizeDate(date)
	result := attendance.GenerateResult{Date: date.Format(dateLayout)}

	resolution, err := s.resolver.Resolve(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to resolve calendar for %s: %w", result.Date, err)
	}

	if !resolution.IsWorkingDay {
		result.SkippedNonWorkingDay = true
		result.Reason = resolution.Reason
		slog.Info("Skipping attendance generation on non-working day",
			"date", result.Date, "reason", resolution.Reason)
		s.audit(ctx, audit.EventGenerate,
			fmt.Sprintf("Skipped generation for %s: %s", result.Date, resolution.Reason))
		return result, nil
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %v", attendance.ErrEmployeeDirectoryUnavailable, err)
	}

	for _, emp := range employees {
		if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.generateForEmployee(txCtx, emp, date, &result)
		}); err != nil {
			slog.Error("Failed to generate attendance for employee",
				"employee_id", emp.ID, "date", result.Date, "error", err)
			result.Errors = append(result.Errors, attendance.EmployeeError{
				EmployeeID: emp.ID,
				Error:      err.Error(),
			})
			s.fallbackPlaceholder(ctx, emp, date, &result)
		}
	}

	s.audit(ctx, audit.EventGenerate, fmt.Sprintf(
		"Generated attendance for %s: created=%d updated=%d leave=%d skipped=%d errors=%d",
		result.Date, result.Created, result.Updated, result.LeaveCount, result.Skipped, len(result.Errors)))

	slog.Info("Attendance generation finished",
		"date", result.Date,
		"created", result.Created,
		"updated", result.Updated,
		"leave_count", result.LeaveCount,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	return result, nil
}

// generateForEmployee ensures one record for (employee, date). Runs
// inside a transaction so the check-then-write cannot race an
// overlapping trigger for the same pair.
func (s *EngineServiceImpl) generateForEmployee(ctx context.Context, emp employee.Employee, date time.Time, result *attendance.GenerateResult) error {
	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return err
	}

	approvedLeave, err := s.leaveLookup.FindApprovedLeave(ctx, emp.ID, date)
	if err != nil {
		return err
	}

	if existing != nil {
		// Upgrade a leave-less record when an approval arrived after it
		// was created; anything else stays untouched.
		if approvedLeave != nil && existing.LeaveID == nil {
			status := leaveStatus(approvedLeave)
			existing.LeaveID = &approvedLeave.ID
			existing.CheckInStatus = status
			existing.CheckOutStatus = status
			existing.Trail = existing.Trail.Append(time.Now(), attendance.ActorDailyGenerator,
				fmt.Sprintf("linked approved leave (%s)", approvedLeave.Kind))
			if err := s.attendanceRepo.Update(ctx, *existing); err != nil {
				return err
			}
			result.Updated++
			result.LeaveCount++
			return nil
		}
		result.Skipped++
		return nil
	}

	record := attendance.AttendanceRecord{
		EmployeeID:        emp.ID,
		Date:              date,
		CheckInStatus:     attendance.NotYetRecorded(),
		CheckOutStatus:    attendance.NotYetRecorded(),
		IsSystemGenerated: true,
	}

	if approvedLeave != nil {
		status := leaveStatus(approvedLeave)
		record.LeaveID = &approvedLeave.ID
		record.CheckInStatus = status
		record.CheckOutStatus = status
		record.Trail = record.Trail.Append(time.Now(), attendance.ActorDailyGenerator,
			fmt.Sprintf("generated from approved leave (%s)", approvedLeave.Kind))
	} else {
		record.Trail = record.Trail.Append(time.Now(), attendance.ActorDailyGenerator, "generated placeholder")
	}

	if _, err := s.attendanceRepo.Create(ctx, record); err != nil {
		// A concurrent writer won the insert; the row exists, which is
		// all this operation guarantees.
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			result.Skipped++
			return nil
		}
		return err
	}

	result.Created++
	if approvedLeave != nil {
		result.LeaveCount++
	}
	return nil
}

// fallbackPlaceholder makes one last attempt to leave a minimal row
// behind after a per-employee failure, so the day is never silently
// missing a record. Errors here are logged and swallowed.
func (s *EngineServiceImpl) fallbackPlaceholder(ctx context.Context, emp employee.Employee, date time.Time, result *attendance.GenerateResult) {
	record := attendance.AttendanceRecord{
		EmployeeID:        emp.ID,
		Date:              date,
		CheckInStatus:     attendance.NotYetRecorded(),
		CheckOutStatus:    attendance.NotYetRecorded(),
		IsSystemGenerated: true,
		Trail: attendance.Trail{}.Append(time.Now(), attendance.ActorDailyGenerator,
			"generated minimal placeholder after failure"),
	}

	if _, err := s.attendanceRepo.Create(ctx, record); err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return
		}
		slog.Error("Fallback placeholder creation failed",
			"employee_id", emp.ID, "date", date.Format(dateLayout), "error", err)
		return
	}

	result.Created++
}

// GenerateForRange implements attendance.EngineService. Each date is
// isolated: one failing date is reported and the rest still run.
func (s *EngineServiceImpl) GenerateForRange(ctx context.Context, start, end time.Time) (attendance.RangeResult, error) {
	start = normalizeDate(start)
	end = normalizeDate(end)

	result := attendance.RangeResult{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
	}

	if start.After(end) {
		return result, fmt.Errorf("invalid range: %s is after %s", result.StartDate, result.EndDate)
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayResult, err := s.GenerateForDate(ctx, d)
		if err != nil {
			slog.Error("Failed to generate attendance for date in range",
				"date", d.Format(dateLayout), "error", err)
			result.FailedDates = append(result.FailedDates, d.Format(dateLayout))
			continue
		}
		result.Dates = append(result.Dates, dayResult)
		result.TotalCreated += dayResult.Created
		result.TotalUpdated += dayResult.Updated
	}

	s.audit(ctx, audit.EventGenerateRange, fmt.Sprintf(
		"Generated attendance for range %s..%s: created=%d updated=%d failed_dates=%d",
		result.StartDate, result.EndDate, result.TotalCreated, result.TotalUpdated, len(result.FailedDates)))

	return result, nil
}
