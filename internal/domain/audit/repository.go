package audit

import "context"

// LogRepository is the append-only system log. Writes are best-effort:
// callers log failures and move on, a failed append never fails the
// operation that produced it.
type LogRepository interface {
	Append(ctx context.Context, eventType EventType, description string) error

	// ListRecent returns the newest entries, newest first, for the
	// scheduler status surface.
	ListRecent(ctx context.Context, limit int) ([]LogEntry, error)
}
