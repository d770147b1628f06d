package audit

import "time"

// EventType classifies system log entries written by the engine.
type EventType string

const (
	EventGenerate      EventType = "GENERATE_ATTENDANCE"
	EventGenerateRange EventType = "GENERATE_ATTENDANCE_RANGE"
	EventFinalize      EventType = "FINALIZE_ATTENDANCE"
	EventReconcile     EventType = "RECONCILE_ATTENDANCE"
	EventRevoke        EventType = "LEAVE_REVOKED"
	EventExpireLeave   EventType = "EXPIRE_PENDING_LEAVE"
	EventCronError     EventType = "CRON_ERROR"
	EventManualTrigger EventType = "MANUAL_TRIGGER"
)

type LogEntry struct {
	ID          string
	EventType   EventType
	Description string
	CreatedAt   time.Time
}
