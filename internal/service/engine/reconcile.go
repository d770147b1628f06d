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

// ReconcileDate implements attendance.EngineService. It walks every
// approved leave covering the date and force-aligns the matching
// attendance record, creating it when absent. Mid-day approvals are
// picked up here without waiting for end of day.
func (s *EngineServiceImpl) ReconcileDate(ctx context.Context, date time.Time) (attendance.ReconcileResult, error) {
	date = normalizeDate(date)
	result := attendance.ReconcileResult{Date: date.Format(dateLayout)}

	resolution, err := s.resolver.Resolve(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to resolve calendar for %s: %w", result.Date, err)
	}

	if !resolution.IsWorkingDay {
		result.SkippedNonWorkingDay = true
		result.Reason = resolution.Reason
		slog.Info("Skipping leave reconciliation on non-working day",
			"date", result.Date, "reason", resolution.Reason)
		s.audit(ctx, audit.EventReconcile,
			fmt.Sprintf("Skipped reconciliation for %s: %s", result.Date, resolution.Reason))
		return result, nil
	}

	requests, err := s.leaveRepo.ListApprovedCovering(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to list approved leave covering %s: %w", result.Date, err)
	}

	// One pass per employee; the repository orders by approval recency,
	// so the first request seen for an employee is the one that wins.
	seen := make(map[string]bool, len(requests))
	for _, request := range requests {
		if seen[request.EmployeeID] {
			continue
		}
		seen[request.EmployeeID] = true

		request := request
		if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			return s.reconcileLeave(txCtx, request, date, &result)
		}); err != nil {
			slog.Error("Failed to reconcile attendance with approved leave",
				"employee_id", request.EmployeeID,
				"leave_id", request.ID,
				"date", result.Date,
				"error", err)
			result.Errors = append(result.Errors, attendance.EmployeeError{
				EmployeeID: request.EmployeeID,
				Error:      err.Error(),
			})
		}
	}

	s.audit(ctx, audit.EventReconcile, fmt.Sprintf(
		"Reconciled attendance with approved leave for %s: created=%d updated=%d errors=%d",
		result.Date, result.Created, result.Updated, len(result.Errors)))

	slog.Info("Leave reconciliation finished",
		"date", result.Date,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors))

	return result, nil
}

func (s *EngineServiceImpl) reconcileLeave(ctx context.Context, request leave.LeaveRequest, date time.Time, result *attendance.ReconcileResult) error {
	status := leaveStatus(&request)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, request.EmployeeID, date)
	if err != nil {
		return err
	}

	if record == nil {
		created := attendance.AttendanceRecord{
			EmployeeID:        request.EmployeeID,
			Date:              date,
			CheckInStatus:     status,
			CheckOutStatus:    status,
			LeaveID:           &request.ID,
			IsSystemGenerated: true,
			Trail: attendance.Trail{}.Append(time.Now(), attendance.ActorReconciler,
				fmt.Sprintf("created from approved leave (%s)", request.Kind)),
		}
		if _, err := s.attendanceRepo.Create(ctx, created); err != nil {
			if errors.Is(err, attendance.ErrDuplicateRecord) {
				// Lost the insert to a concurrent writer; align the row
				// it left behind instead.
				record, err = s.attendanceRepo.GetByEmployeeAndDate(ctx, request.EmployeeID, date)
				if err != nil {
					return err
				}
				if record == nil {
					return attendance.ErrRecordNotFound
				}
				return s.alignRecord(ctx, record, request, status, result)
			}
			return err
		}
		result.Created++
		return nil
	}

	return s.alignRecord(ctx, record, request, status, result)
}

// alignRecord forces the record's leave link and statuses to match the
// approved request. Approved leave wins over any placeholder status,
// so an already-aligned record is the only no-op.
func (s *EngineServiceImpl) alignRecord(ctx context.Context, record *attendance.AttendanceRecord, request leave.LeaveRequest, status attendance.Status, result *attendance.ReconcileResult) error {
	aligned := record.LeaveID != nil && *record.LeaveID == request.ID &&
		record.CheckInStatus == status && record.CheckOutStatus == status
	if aligned {
		return nil
	}

	record.LeaveID = &request.ID
	record.CheckInStatus = status
	record.CheckOutStatus = status
	record.Trail = record.Trail.Append(time.Now(), attendance.ActorReconciler,
		fmt.Sprintf("aligned with approved leave (%s)", request.Kind))

	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return err
	}
	result.Updated++
	return nil
}
