package attendance

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
)

// Code enumerates the closed set of attendance status codes. There is
// no fallback variant: anything outside this set is rejected at the
// boundary instead of being truncated into the column.
type Code string

const (
	CodeNotYetRecorded Code = "not_yet_recorded"
	CodeOnTime         Code = "on_time"
	CodeLate           Code = "late"
	CodeLeave          Code = "leave"
	CodeUnexcused      Code = "unexcused"
	CodeOvertime       Code = "overtime"
	CodeEarlyLeave     Code = "early_leave"
	CodeNotReturned    Code = "not_returned"
)

// Status is a tagged variant: LeaveKind carries the payload for
// CodeLeave and must be empty for every other code.
type Status struct {
	Code      Code
	LeaveKind leave.Kind
}

func NotYetRecorded() Status { return Status{Code: CodeNotYetRecorded} }
func OnTime() Status         { return Status{Code: CodeOnTime} }
func Late() Status           { return Status{Code: CodeLate} }
func Unexcused() Status      { return Status{Code: CodeUnexcused} }
func Overtime() Status       { return Status{Code: CodeOvertime} }
func EarlyLeave() Status     { return Status{Code: CodeEarlyLeave} }
func NotReturned() Status    { return Status{Code: CodeNotReturned} }

func OnLeave(kind leave.Kind) Status {
	return Status{Code: CodeLeave, LeaveKind: kind}
}

// IsTerminal reports whether the status never changes again once the
// day is finalized.
func (s Status) IsTerminal() bool {
	switch s.Code {
	case CodeUnexcused, CodeLeave:
		return true
	case CodeNotYetRecorded, CodeOnTime, CodeLate, CodeOvertime, CodeEarlyLeave, CodeNotReturned:
		return false
	}
	return false
}

func (s Status) IsLeave() bool {
	return s.Code == CodeLeave
}

// String encodes the status for storage and transport. Leave statuses
// carry their kind as "leave:<kind>".
func (s Status) String() string {
	switch s.Code {
	case CodeLeave:
		return string(CodeLeave) + ":" + string(s.LeaveKind)
	case CodeNotYetRecorded, CodeOnTime, CodeLate, CodeUnexcused, CodeOvertime, CodeEarlyLeave, CodeNotReturned:
		return string(s.Code)
	}
	return string(s.Code)
}

// ParseStatus decodes a stored status. Unknown codes and malformed
// leave kinds are errors, never coerced.
func ParseStatus(raw string) (Status, error) {
	if kind, ok := strings.CutPrefix(raw, string(CodeLeave)+":"); ok {
		k := leave.Kind(kind)
		if !k.IsValid() {
			return Status{}, fmt.Errorf("%w: unknown leave kind %q", ErrInvalidStatus, kind)
		}
		return OnLeave(k), nil
	}

	switch Code(raw) {
	case CodeNotYetRecorded:
		return NotYetRecorded(), nil
	case CodeOnTime:
		return OnTime(), nil
	case CodeLate:
		return Late(), nil
	case CodeUnexcused:
		return Unexcused(), nil
	case CodeOvertime:
		return Overtime(), nil
	case CodeEarlyLeave:
		return EarlyLeave(), nil
	case CodeNotReturned:
		return NotReturned(), nil
	case CodeLeave:
		return Status{}, fmt.Errorf("%w: leave status without kind", ErrInvalidStatus)
	}
	return Status{}, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Value implements driver.Valuer for database storage
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (s *Status) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*s = NotYetRecorded()
		return nil
	default:
		return fmt.Errorf("failed to scan Status: invalid type %T", value)
	}

	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON encodes the status as its string form in responses.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
