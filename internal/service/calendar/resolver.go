package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/calendar"
)

type ResolverImpl struct {
	calendarRepo calendar.CalendarRepository
}

func NewResolver(calendarRepo calendar.CalendarRepository) calendar.Resolver {
	return &ResolverImpl{calendarRepo: calendarRepo}
}

// Normalize strips the time component so calendar dates compare by day.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Resolve implements calendar.Resolver. Precedence, first match wins:
// explicit override, then holiday, then the Monday-Friday default.
func (r *ResolverImpl) Resolve(ctx context.Context, date time.Time) (calendar.DayResolution, error) {
	date = Normalize(date)

	override, err := r.calendarRepo.GetOverride(ctx, date)
	if err != nil {
		return calendar.DayResolution{}, fmt.Errorf("failed to resolve override for %s: %w", date.Format("2006-01-02"), err)
	}
	if override != nil {
		return calendar.DayResolution{
			Date:         date,
			IsWorkingDay: override.IsWorkingDay,
			Reason:       override.Note,
			Source:       calendar.SourceOverride,
		}, nil
	}

	holiday, err := r.calendarRepo.GetHoliday(ctx, date)
	if err != nil {
		return calendar.DayResolution{}, fmt.Errorf("failed to resolve holiday for %s: %w", date.Format("2006-01-02"), err)
	}
	if holiday != nil {
		return calendar.DayResolution{
			Date:         date,
			IsWorkingDay: false,
			Reason:       "Holiday: " + holiday.Label,
			Source:       calendar.SourceHoliday,
		}, nil
	}

	weekday := date.Weekday()
	isWeekday := weekday >= time.Monday && weekday <= time.Friday

	reason := "normal working day"
	if !isWeekday {
		reason = "weekend"
	}

	return calendar.DayResolution{
		Date:         date,
		IsWorkingDay: isWeekday,
		Reason:       reason,
		Source:       calendar.SourceDefault,
	}, nil
}

// ResolveRange implements calendar.Resolver.
func (r *ResolverImpl) ResolveRange(ctx context.Context, start, end time.Time) ([]calendar.DayResolution, error) {
	start = Normalize(start)
	end = Normalize(end)

	if start.After(end) {
		return nil, calendar.ErrInvalidRange
	}

	var resolutions []calendar.DayResolution
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		res, err := r.Resolve(ctx, d)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	return resolutions, nil
}
