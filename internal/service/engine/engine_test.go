package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/domain/calendar"
	"github.com/kantorkita/presensi-backend-go/internal/domain/employee"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
	calendarService "github.com/kantorkita/presensi-backend-go/internal/service/calendar"
	leaveService "github.com/kantorkita/presensi-backend-go/internal/service/leave"
)

// ===== IN-MEMORY FAKES =====

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.AttendanceRecord
	nextID  int

	// failCreate[employeeID] forces that many Create calls to fail.
	failCreate map[string]int
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{
		records:    make(map[string]attendance.AttendanceRecord),
		failCreate: make(map[string]int),
	}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (m *memAttendanceRepo) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate[record.EmployeeID] > 0 {
		m.failCreate[record.EmployeeID]--
		return attendance.AttendanceRecord{}, errors.New("forced create failure")
	}

	key := recordKey(record.EmployeeID, record.Date)
	if _, exists := m.records[key]; exists {
		return attendance.AttendanceRecord{}, attendance.ErrDuplicateRecord
	}

	m.nextID++
	record.ID = fmt.Sprintf("rec-%d", m.nextID)
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	m.records[key] = record
	return record, nil
}

func (m *memAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.records[recordKey(employeeID, date)]
	if !exists {
		return nil, nil
	}
	return &record, nil
}

func (m *memAttendanceRepo) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey(record.EmployeeID, record.Date)
	if _, exists := m.records[key]; !exists {
		return attendance.ErrRecordNotFound
	}
	record.UpdatedAt = time.Now()
	m.records[key] = record
	return nil
}

func (m *memAttendanceRepo) list(filter func(attendance.AttendanceRecord) bool) []attendance.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []attendance.AttendanceRecord
	for _, record := range m.records {
		if filter(record) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

func (m *memAttendanceRepo) ListForDate(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	day := date.Format("2006-01-02")
	return m.list(func(r attendance.AttendanceRecord) bool {
		return r.Date.Format("2006-01-02") == day
	}), nil
}

func (m *memAttendanceRepo) ListMissingCheckIn(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	day := date.Format("2006-01-02")
	return m.list(func(r attendance.AttendanceRecord) bool {
		return r.Date.Format("2006-01-02") == day && r.CheckInAt == nil
	}), nil
}

func (m *memAttendanceRepo) ListOpenCheckOuts(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	day := date.Format("2006-01-02")
	return m.list(func(r attendance.AttendanceRecord) bool {
		return r.Date.Format("2006-01-02") == day && r.CheckInAt != nil && r.CheckOutAt == nil
	}), nil
}

func (m *memAttendanceRepo) ListByLeaveID(ctx context.Context, leaveID string) ([]attendance.AttendanceRecord, error) {
	return m.list(func(r attendance.AttendanceRecord) bool {
		return r.LeaveID != nil && *r.LeaveID == leaveID
	}), nil
}

func (m *memAttendanceRepo) get(employeeID string, date time.Time) attendance.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[recordKey(employeeID, date)]
}

func (m *memAttendanceRepo) put(record attendance.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if record.ID == "" {
		record.ID = fmt.Sprintf("rec-%d", m.nextID)
	}
	m.records[recordKey(record.EmployeeID, record.Date)] = record
}

func (m *memAttendanceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type memEmployeeRepo struct {
	employees []employee.Employee
	listErr   error
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []employee.Employee
	for _, emp := range m.employees {
		if emp.Active && emp.Role == employee.RoleEmployee {
			out = append(out, emp)
		}
	}
	return out, nil
}

type memLeaveRepo struct {
	requests map[string]leave.LeaveRequest
}

func newMemLeaveRepo() *memLeaveRepo {
	return &memLeaveRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (m *memLeaveRepo) put(lr leave.LeaveRequest) {
	m.requests[lr.ID] = lr
}

func (m *memLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	lr, exists := m.requests[id]
	if !exists {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return lr, nil
}

func (m *memLeaveRepo) approvedCovering(date time.Time, employeeID string) []leave.LeaveRequest {
	var out []leave.LeaveRequest
	for _, lr := range m.requests {
		if lr.Status != leave.RequestStatusApproved || !lr.Covers(date) {
			continue
		}
		if employeeID != "" && lr.EmployeeID != employeeID {
			continue
		}
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt, out[j].CreatedAt
		if out[i].ApprovedAt != nil {
			ti = *out[i].ApprovedAt
		}
		if out[j].ApprovedAt != nil {
			tj = *out[j].ApprovedAt
		}
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func (m *memLeaveRepo) FindApprovedForDate(ctx context.Context, employeeID string, date time.Time) ([]leave.LeaveRequest, error) {
	return m.approvedCovering(date, employeeID), nil
}

func (m *memLeaveRepo) ListApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	return m.approvedCovering(date, ""), nil
}

func (m *memLeaveRepo) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	var expired int64
	for id, lr := range m.requests {
		if lr.Status == leave.RequestStatusPending && lr.EndDate.Before(cutoff) {
			lr.Status = leave.RequestStatusExpired
			m.requests[id] = lr
			expired++
		}
	}
	return expired, nil
}

type memCalendarRepo struct {
	overrides  map[string]calendar.WorkingDayOverride
	holidays   map[string]calendar.Holiday
	resolveErr error
}

func newMemCalendarRepo() *memCalendarRepo {
	return &memCalendarRepo{
		overrides: make(map[string]calendar.WorkingDayOverride),
		holidays:  make(map[string]calendar.Holiday),
	}
}

func (m *memCalendarRepo) GetOverride(ctx context.Context, date time.Time) (*calendar.WorkingDayOverride, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	if o, exists := m.overrides[date.Format("2006-01-02")]; exists {
		return &o, nil
	}
	return nil, nil
}

func (m *memCalendarRepo) GetHoliday(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	if h, exists := m.holidays[date.Format("2006-01-02")]; exists {
		return &h, nil
	}
	for _, h := range m.holidays {
		if h.Recurring && h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
			return &h, nil
		}
	}
	return nil, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []audit.LogEntry
	err     error
}

func (m *memAuditRepo) Append(ctx context.Context, eventType audit.EventType, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, audit.LogEntry{
		ID:          fmt.Sprintf("log-%d", len(m.entries)+1),
		EventType:   eventType,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (m *memAuditRepo) ListRecent(ctx context.Context, limit int) ([]audit.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]audit.LogEntry, limit)
	copy(out, m.entries[len(m.entries)-limit:])
	return out, nil
}

func (m *memAuditRepo) eventTypes() []audit.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]audit.EventType, 0, len(m.entries))
	for _, e := range m.entries {
		types = append(types, e.EventType)
	}
	return types
}

// ===== TEST HARNESS =====

type engineFixture struct {
	attendanceRepo *memAttendanceRepo
	employeeRepo   *memEmployeeRepo
	leaveRepo      *memLeaveRepo
	calendarRepo   *memCalendarRepo
	auditRepo      *memAuditRepo
	engine         attendance.EngineService
}

func newEngineFixture(employees ...employee.Employee) *engineFixture {
	f := &engineFixture{
		attendanceRepo: newMemAttendanceRepo(),
		employeeRepo:   &memEmployeeRepo{employees: employees},
		leaveRepo:      newMemLeaveRepo(),
		calendarRepo:   newMemCalendarRepo(),
		auditRepo:      &memAuditRepo{},
	}
	f.engine = NewEngineService(
		&fakeTxManager{},
		f.attendanceRepo,
		f.employeeRepo,
		f.leaveRepo,
		leaveService.NewLookup(f.leaveRepo),
		calendarService.NewResolver(f.calendarRepo),
		f.auditRepo,
		time.UTC,
	)
	return f
}

func activeEmployee(id, name string) employee.Employee {
	return employee.Employee{ID: id, FullName: name, Role: employee.RoleEmployee, Active: true}
}

func approvedLeaveOn(id, employeeID string, start, end time.Time, kind leave.Kind, approvedAt time.Time) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Kind:       kind,
		Status:     leave.RequestStatusApproved,
		ApprovedAt: &approvedAt,
		CreatedAt:  approvedAt.Add(-time.Hour),
	}
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}
