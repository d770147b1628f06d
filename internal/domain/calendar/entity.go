package calendar

import (
	"time"
)

// WorkingDayOverride is the highest-precedence calendar signal: an
// explicit per-date decision that beats holidays and the weekday rule.
type WorkingDayOverride struct {
	ID           string
	Date         time.Time
	IsWorkingDay bool
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Holiday marks a non-working date. Recurring holidays match on
// month+day every year (national days), non-recurring on the exact date.
type Holiday struct {
	ID        string
	Date      time.Time
	Label     string
	Recurring bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Source identifies which signal decided a resolution.
type Source string

const (
	SourceOverride Source = "override"
	SourceHoliday  Source = "holiday"
	SourceDefault  Source = "default"
)

// DayResolution is the outcome of resolving one date.
type DayResolution struct {
	Date         time.Time `json:"date"`
	IsWorkingDay bool      `json:"is_working_day"`
	Reason       string    `json:"reason"`
	Source       Source    `json:"source"`
}
