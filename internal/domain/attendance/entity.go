package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Actor names for trail entries written by the engine.
const (
	ActorDailyGenerator = "daily_generator"
	ActorFinalizer      = "end_of_day_finalizer"
	ActorReconciler     = "leave_reconciler"
	ActorRevocation     = "leave_revocation"
)

// TrailEntry is one automated transition recorded on a record. The
// trail is the machine-readable history; nothing downstream parses
// free text.
type TrailEntry struct {
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
}

// Trail is the ordered, append-only audit history of a record, stored
// as JSONB.
type Trail []TrailEntry

// Append returns a new trail with one more entry. The receiver is not
// mutated; existing entries are never rewritten.
func (t Trail) Append(at time.Time, actor, action string) Trail {
	out := make(Trail, len(t), len(t)+1)
	copy(out, t)
	return append(out, TrailEntry{At: at, Actor: actor, Action: action})
}

// Value implements driver.Valuer for database storage
func (t Trail) Value() (driver.Value, error) {
	if len(t) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for database retrieval
func (t *Trail) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan Trail: invalid type")
	}

	return json.Unmarshal(bytes, t)
}

// AttendanceRecord is the ledger row: one per (employee, date),
// enforced by a unique constraint at the storage layer.
type AttendanceRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckInAt  *time.Time
	CheckOutAt *time.Time

	// CheckInAt is the sole signal that the employee physically acted;
	// statuses are derived and may change until finalization.
	CheckInStatus  Status
	CheckOutStatus Status

	// LeaveID caches the approved leave covering Date at the time of
	// the last write. Advisory: revocation afterwards goes through
	// HandleLeaveRevoked, not a foreign-key guarantee.
	LeaveID *string

	IsSystemGenerated bool
	Trail             Trail
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	EmployeeName *string
}

// HasCheckedIn reports whether the employee physically checked in.
func (r AttendanceRecord) HasCheckedIn() bool {
	return r.CheckInAt != nil
}
