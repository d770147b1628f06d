package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kantorkita/presensi-backend-go/internal/domain/calendar"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/database"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.CalendarRepository {
	return &calendarRepositoryImpl{db: db}
}

// GetOverride implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetOverride(ctx context.Context, date time.Time) (*calendar.WorkingDayOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, is_working_day, note, created_at, updated_at
		FROM working_day_overrides
		WHERE date = $1
		LIMIT 1
	`

	var o calendar.WorkingDayOverride
	err := q.QueryRow(ctx, query, date).Scan(
		&o.ID, &o.Date, &o.IsWorkingDay, &o.Note, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get working day override: %w", err)
	}

	return &o, nil
}

// GetHoliday implements calendar.CalendarRepository.
// Recurring holidays match on month and day regardless of year.
func (r *calendarRepositoryImpl) GetHoliday(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, label, recurring, created_at, updated_at
		FROM holidays
		WHERE (recurring = FALSE AND date = $1)
		   OR (recurring = TRUE
		       AND EXTRACT(MONTH FROM date) = EXTRACT(MONTH FROM $1::date)
		       AND EXTRACT(DAY FROM date) = EXTRACT(DAY FROM $1::date))
		ORDER BY recurring
		LIMIT 1
	`

	var h calendar.Holiday
	err := q.QueryRow(ctx, query, date).Scan(
		&h.ID, &h.Date, &h.Label, &h.Recurring, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}

	return &h, nil
}
