package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/domain/calendar"
	"github.com/kantorkita/presensi-backend-go/internal/domain/employee"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/database"
)

// EngineServiceImpl implements attendance.EngineService. All batch
// operations process employees sequentially; each employee's
// check-then-write runs inside one transaction so overlapping triggers
// cannot race past the existence check. The (employee_id, date) unique
// constraint backstops whatever slips through.
type EngineServiceImpl struct {
	txManager      database.TxManager
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRepository
	leaveLookup    leave.Lookup
	resolver       calendar.Resolver
	auditRepo      audit.LogRepository
	loc            *time.Location
}

func NewEngineService(
	txManager database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	leaveLookup leave.Lookup,
	resolver calendar.Resolver,
	auditRepo audit.LogRepository,
	loc *time.Location,
) attendance.EngineService {
	if loc == nil {
		loc = time.UTC
	}
	return &EngineServiceImpl{
		txManager:      txManager,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		leaveLookup:    leaveLookup,
		resolver:       resolver,
		auditRepo:      auditRepo,
		loc:            loc,
	}
}

// normalizeDate strips the time component; the engine compares
// calendar days only.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const dateLayout = "2006-01-02"

// audit appends a system log entry, best-effort. A logging failure
// never fails the operation that produced it.
func (s *EngineServiceImpl) audit(ctx context.Context, eventType audit.EventType, description string) {
	if err := s.auditRepo.Append(ctx, eventType, description); err != nil {
		slog.Warn("Failed to append system log", "event_type", eventType, "error", err)
	}
}

// leaveStatus derives the attendance status a leave request produces.
func leaveStatus(lr *leave.LeaveRequest) attendance.Status {
	return attendance.OnLeave(lr.Kind)
}
