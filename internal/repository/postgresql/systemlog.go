package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/database"
)

type systemLogRepositoryImpl struct {
	db *database.DB
}

func NewSystemLogRepository(db *database.DB) audit.LogRepository {
	return &systemLogRepositoryImpl{db: db}
}

// Append implements audit.LogRepository.
func (r *systemLogRepositoryImpl) Append(ctx context.Context, eventType audit.EventType, description string) error {
	// Deliberately not transaction-aware: a rolled-back batch keeps its
	// log entries.
	query := `
		INSERT INTO system_logs (id, event_type, description)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Pool.Exec(ctx, query, uuid.NewString(), eventType, description)
	if err != nil {
		return fmt.Errorf("failed to append system log: %w", err)
	}

	return nil
}

// ListRecent implements audit.LogRepository.
func (r *systemLogRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]audit.LogEntry, error) {
	query := `
		SELECT id, event_type, description, created_at
		FROM system_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	defer rows.Close()

	var entries []audit.LogEntry
	for rows.Next() {
		var e audit.LogEntry
		if err := rows.Scan(&e.ID, &e.EventType, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
