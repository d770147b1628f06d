package attendance

import (
	"context"
	"time"
)

// EngineService is the attendance-generation and end-of-day
// reconciliation engine. Every operation is idempotent per date:
// re-running finds existing rows and either no-ops or upgrades, never
// duplicates.
type EngineService interface {
	// GenerateForDate ensures one record per active employee for date,
	// seeded from approved leave where present. Non-working dates are a
	// no-op, not an error.
	GenerateForDate(ctx context.Context, date time.Time) (GenerateResult, error)

	// GenerateForRange runs GenerateForDate for every date in the
	// inclusive range, isolating per-date failures.
	GenerateForRange(ctx context.Context, start, end time.Time) (RangeResult, error)

	// FinalizeDate converts records still lacking a check-in into the
	// terminal unexcused status, unless leave was approved meanwhile.
	FinalizeDate(ctx context.Context, date time.Time) (FinalizeResult, error)

	// CloseOpenCheckOuts marks records with a check-in but no check-out
	// as not returned.
	CloseOpenCheckOuts(ctx context.Context, date time.Time) (CloseOutResult, error)

	// ReconcileDate force-aligns records with currently-approved leave
	// for date: link-if-missing, create-if-absent.
	ReconcileDate(ctx context.Context, date time.Time) (ReconcileResult, error)

	// HandleLeaveRevoked unlinks records that reference a leave request
	// no longer approved, re-finalizing past dates and resetting future
	// ones.
	HandleLeaveRevoked(ctx context.Context, leaveID string) (RevokeResult, error)
}
