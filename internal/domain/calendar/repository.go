package calendar

import (
	"context"
	"time"
)

type CalendarRepository interface {
	// GetOverride returns the override row for date, or nil when none exists.
	GetOverride(ctx context.Context, date time.Time) (*WorkingDayOverride, error)

	// GetHoliday returns the holiday matching date, or nil. Recurring
	// holidays match on month and day regardless of year.
	GetHoliday(ctx context.Context, date time.Time) (*Holiday, error)
}

// Resolver decides whether a date is a working day. Pure read path,
// no side effects.
type Resolver interface {
	Resolve(ctx context.Context, date time.Time) (DayResolution, error)
	ResolveRange(ctx context.Context, start, end time.Time) ([]DayResolution, error)
}
