package engine

import (
	"context"
	"testing"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineService_FinalizeDate_MarksUnexcused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"))
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:        "emp-1",
		Date:              monday,
		CheckInStatus:     attendance.NotYetRecorded(),
		CheckOutStatus:    attendance.NotYetRecorded(),
		IsSystemGenerated: true,
	})

	// Act
	result, err := f.engine.FinalizeDate(ctx, monday)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.UnexcusedCount)
	assert.Equal(t, 0, result.LeaveCount)

	record := f.attendanceRepo.get("emp-1", monday)
	assert.Equal(t, attendance.Unexcused(), record.CheckInStatus)
	assert.Equal(t, attendance.Unexcused(), record.CheckOutStatus)
	assert.True(t, record.CheckInStatus.IsTerminal())
	require.Len(t, record.Trail, 1)
	assert.Equal(t, attendance.ActorFinalizer, record.Trail[0].Actor)
}

func TestEngineService_FinalizeDate_LateApprovalBeatsUnexcused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"))
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:        "emp-1",
		Date:              monday,
		CheckInStatus:     attendance.NotYetRecorded(),
		CheckOutStatus:    attendance.NotYetRecorded(),
		IsSystemGenerated: true,
	})
	// Approval landed during the day; the record was never linked.
	f.leaveRepo.put(approvedLeaveOn("leave-1", "emp-1", monday, monday, leave.KindPersonal, time.Now()))

	// Act
	result, err := f.engine.FinalizeDate(ctx, monday)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.LeaveCount)
	assert.Equal(t, 0, result.UnexcusedCount)

	record := f.attendanceRepo.get("emp-1", monday)
	require.NotNil(t, record.LeaveID)
	assert.Equal(t, "leave-1", *record.LeaveID)
	assert.Equal(t, attendance.OnLeave(leave.KindPersonal), record.CheckInStatus)
}

func TestEngineService_FinalizeDate_ConfirmsLinkedLeave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"))
	f.leaveRepo.put(approvedLeaveOn("leave-1", "emp-1", monday, monday, leave.KindSick, time.Now()))

	leaveID := "leave-1"
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:        "emp-1",
		Date:              monday,
		CheckInStatus:     attendance.OnLeave(leave.KindSick),
		CheckOutStatus:    attendance.OnLeave(leave.KindSick),
		LeaveID:           &leaveID,
		IsSystemGenerated: true,
	})

	// Act
	result, err := f.engine.FinalizeDate(ctx, monday)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.LeaveCount)
	assert.Equal(t, 0, result.UnexcusedCount)
}

func TestEngineService_FinalizeDate_StaleLinkFallsBackToUnexcused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"))

	// The linked request was cancelled after linking and no other
	// approved leave covers the date.
	cancelled := approvedLeaveOn("leave-1", "emp-1", monday, monday, leave.KindAnnual, time.Now())
	cancelled.Status = leave.RequestStatusCancelled
	f.leaveRepo.put(cancelled)

	leaveID := "leave-1"
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:        "emp-1",
		Date:              monday,
		CheckInStatus:     attendance.OnLeave(leave.KindAnnual),
		CheckOutStatus:    attendance.OnLeave(leave.KindAnnual),
		LeaveID:           &leaveID,
		IsSystemGenerated: true,
	})

	// Act
	result, err := f.engine.FinalizeDate(ctx, monday)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnexcusedCount)

	record := f.attendanceRepo.get("emp-1", monday)
	assert.Nil(t, record.LeaveID)
	assert.Equal(t, attendance.Unexcused(), record.CheckInStatus)
}

func TestEngineService_FinalizeDate_IgnoresCheckedInRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"))
	checkIn := monday.Add(8 * time.Hour)
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:     "emp-1",
		Date:           monday,
		CheckInAt:      &checkIn,
		CheckInStatus:  attendance.OnTime(),
		CheckOutStatus: attendance.NotYetRecorded(),
	})

	// Act
	result, err := f.engine.FinalizeDate(ctx, monday)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)

	record := f.attendanceRepo.get("emp-1", monday)
	assert.Equal(t, attendance.OnTime(), record.CheckInStatus)
}

func TestEngineService_FinalizeDate_SkipsNonWorkingDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"))
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:     "emp-1",
		Date:           day("2024-06-15"),
		CheckInStatus:  attendance.NotYetRecorded(),
		CheckOutStatus: attendance.NotYetRecorded(),
	})

	// Act
	result, err := f.engine.FinalizeDate(ctx, day("2024-06-15"))

	// Assert
	require.NoError(t, err)
	assert.True(t, result.SkippedNonWorkingDay)
	assert.Equal(t, 0, result.Updated)

	record := f.attendanceRepo.get("emp-1", day("2024-06-15"))
	assert.Equal(t, attendance.NotYetRecorded(), record.CheckInStatus)
}

func TestEngineService_CloseOpenCheckOuts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newEngineFixture(activeEmployee("emp-1", "Andi"), activeEmployee("emp-2", "Budi"))

	checkIn := monday.Add(8 * time.Hour)
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:     "emp-1",
		Date:           monday,
		CheckInAt:      &checkIn,
		CheckInStatus:  attendance.OnTime(),
		CheckOutStatus: attendance.NotYetRecorded(),
	})

	checkOut := monday.Add(17 * time.Hour)
	f.attendanceRepo.put(attendance.AttendanceRecord{
		EmployeeID:     "emp-2",
		Date:           monday,
		CheckInAt:      &checkIn,
		CheckOutAt:     &checkOut,
		CheckInStatus:  attendance.OnTime(),
		CheckOutStatus: attendance.OnTime(),
	})

	// Act
	result, err := f.engine.CloseOpenCheckOuts(ctx, monday)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Closed)

	open := f.attendanceRepo.get("emp-1", monday)
	assert.Equal(t, attendance.NotReturned(), open.CheckOutStatus)
	// The check-in grade is not rewritten.
	assert.Equal(t, attendance.OnTime(), open.CheckInStatus)

	closed := f.attendanceRepo.get("emp-2", monday)
	assert.Equal(t, attendance.OnTime(), closed.CheckOutStatus)
}
