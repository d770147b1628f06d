package calendar

import "errors"

// A non-working day is a normal resolution outcome, never an error.
// Errors here mean the input itself was unusable.
var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("start date must not be after end date")
)
