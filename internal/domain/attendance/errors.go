package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrDuplicateRecord = errors.New("attendance record already exists for this employee and date")
	ErrInvalidStatus   = errors.New("invalid attendance status")

	// ErrEmployeeDirectoryUnavailable marks a batch-level failure: no
	// partial generation is attempted without a valid employee list.
	ErrEmployeeDirectoryUnavailable = errors.New("employee directory unavailable")
)
