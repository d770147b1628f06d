package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
)

// AttendanceJobs wires the generation engine into the scheduler. All
// specs run in the scheduler's location, which is the company's
// operating timezone.
type AttendanceJobs struct {
	engine    attendance.EngineService
	leaveRepo leave.LeaveRepository
	auditRepo audit.LogRepository
	loc       *time.Location
}

func NewAttendanceJobs(
	engine attendance.EngineService,
	leaveRepo leave.LeaveRepository,
	auditRepo audit.LogRepository,
	loc *time.Location,
) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		engine:    engine,
		leaveRepo: leaveRepo,
		auditRepo: auditRepo,
		loc:       loc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	jobs := []struct {
		name string
		spec string
		fn   func(ctx context.Context) error
	}{
		// Shortly past midnight so today's records exist before anyone
		// checks in.
		{"generate_daily_attendance", "1 0 * * *", j.GenerateToday},
		// Mid-morning sweep picks up leave approved overnight or early.
		{"reconcile_morning_leave", "0 8 * * *", j.ReconcileToday},
		// End of day: close the books for today.
		{"finalize_end_of_day", "59 23 * * *", j.FinalizeToday},
		// Monday early morning: pre-generate the coming week.
		{"pregenerate_next_week", "0 1 * * 1", j.PregenerateWeek},
		// Weekly cleanup of pending requests that can no longer be acted on.
		{"expire_stale_pending_leave", "30 1 * * 1", j.ExpireStaleLeave},
	}

	for _, job := range jobs {
		if err := scheduler.AddJob(job.name, job.spec, job.fn); err != nil {
			return fmt.Errorf("failed to register job %s: %w", job.name, err)
		}
	}
	return nil
}

func (j *AttendanceJobs) today() time.Time {
	return time.Now().In(j.loc)
}

// logCronError records a failed run in the system log so operators see
// it without grepping process output.
func (j *AttendanceJobs) logCronError(ctx context.Context, jobName string, err error) {
	if auditErr := j.auditRepo.Append(ctx, audit.EventCronError,
		fmt.Sprintf("Job %s failed: %v", jobName, err)); auditErr != nil {
		slog.Warn("Failed to record cron error", "job", jobName, "error", auditErr)
	}
}

// GenerateToday creates today's records and immediately reconciles
// them with approved leave, so a fresh day starts consistent.
func (j *AttendanceJobs) GenerateToday(ctx context.Context) error {
	today := j.today()

	if _, err := j.engine.GenerateForDate(ctx, today); err != nil {
		j.logCronError(ctx, "generate_daily_attendance", err)
		return fmt.Errorf("failed to generate attendance: %w", err)
	}

	if _, err := j.engine.ReconcileDate(ctx, today); err != nil {
		j.logCronError(ctx, "generate_daily_attendance", err)
		return fmt.Errorf("failed to reconcile after generation: %w", err)
	}

	return nil
}

func (j *AttendanceJobs) ReconcileToday(ctx context.Context) error {
	if _, err := j.engine.ReconcileDate(ctx, j.today()); err != nil {
		j.logCronError(ctx, "reconcile_morning_leave", err)
		return fmt.Errorf("failed to reconcile attendance: %w", err)
	}
	return nil
}

// FinalizeToday closes today's books: missing check-ins become
// terminal, open check-outs are marked not returned.
func (j *AttendanceJobs) FinalizeToday(ctx context.Context) error {
	today := j.today()

	if _, err := j.engine.FinalizeDate(ctx, today); err != nil {
		j.logCronError(ctx, "finalize_end_of_day", err)
		return fmt.Errorf("failed to finalize attendance: %w", err)
	}

	if _, err := j.engine.CloseOpenCheckOuts(ctx, today); err != nil {
		j.logCronError(ctx, "finalize_end_of_day", err)
		return fmt.Errorf("failed to close open check-outs: %w", err)
	}

	return nil
}

// PregenerateWeek builds records for the next seven days so upcoming
// leave is visible on the roster before the day arrives.
func (j *AttendanceJobs) PregenerateWeek(ctx context.Context) error {
	start := j.today().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 6)

	if _, err := j.engine.GenerateForRange(ctx, start, end); err != nil {
		j.logCronError(ctx, "pregenerate_next_week", err)
		return fmt.Errorf("failed to pre-generate attendance: %w", err)
	}
	return nil
}

// ExpireStaleLeave expires pending requests whose window has fully
// passed; nothing can approve them into effect anymore.
func (j *AttendanceJobs) ExpireStaleLeave(ctx context.Context) error {
	expired, err := j.leaveRepo.ExpireStalePending(ctx, j.today())
	if err != nil {
		j.logCronError(ctx, "expire_stale_pending_leave", err)
		return fmt.Errorf("failed to expire stale pending leave: %w", err)
	}

	if expired > 0 {
		slog.Info("Expired stale pending leave requests", "count", expired)
		if err := j.auditRepo.Append(ctx, audit.EventExpireLeave,
			fmt.Sprintf("Expired %d stale pending leave requests", expired)); err != nil {
			slog.Warn("Failed to record leave expiry", "error", err)
		}
	}
	return nil
}
