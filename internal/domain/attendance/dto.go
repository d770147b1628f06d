package attendance

import (
	"github.com/kantorkita/presensi-backend-go/internal/pkg/validator"
)

// ========================================
// ENGINE RESULT SUMMARIES
// ========================================

// EmployeeError records one isolated per-employee failure inside a
// batch run. The batch itself carries on.
type EmployeeError struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type GenerateResult struct {
	Date                 string          `json:"date"`
	Created              int             `json:"created"`
	Updated              int             `json:"updated"`
	LeaveCount           int             `json:"leave_count"`
	Skipped              int             `json:"skipped"`
	SkippedNonWorkingDay bool            `json:"skipped_non_working_day"`
	Reason               string          `json:"reason,omitempty"`
	Errors               []EmployeeError `json:"errors,omitempty"`
}

type RangeResult struct {
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	Dates        []GenerateResult `json:"dates"`
	TotalCreated int              `json:"total_created"`
	TotalUpdated int              `json:"total_updated"`
	FailedDates  []string         `json:"failed_dates,omitempty"`
}

type FinalizeResult struct {
	Date                 string          `json:"date"`
	Updated              int             `json:"updated"`
	LeaveCount           int             `json:"leave_count"`
	UnexcusedCount       int             `json:"unexcused_count"`
	SkippedNonWorkingDay bool            `json:"skipped_non_working_day"`
	Reason               string          `json:"reason,omitempty"`
	Errors               []EmployeeError `json:"errors,omitempty"`
}

type CloseOutResult struct {
	Date   string          `json:"date"`
	Closed int             `json:"closed"`
	Errors []EmployeeError `json:"errors,omitempty"`
}

type ReconcileResult struct {
	Date                 string          `json:"date"`
	Created              int             `json:"created"`
	Updated              int             `json:"updated"`
	SkippedNonWorkingDay bool            `json:"skipped_non_working_day"`
	Reason               string          `json:"reason,omitempty"`
	Errors               []EmployeeError `json:"errors,omitempty"`
}

type RevokeResult struct {
	LeaveID   string `json:"leave_id"`
	Unlinked  int    `json:"unlinked"`
	Finalized int    `json:"finalized"`
	Reset     int    `json:"reset"`
}

// ========================================
// ADMIN TRIGGER REQUESTS
// ========================================

// GenerateTriggerRequest triggers generation for a single date or an
// inclusive range. Exactly one of the two forms must be used.
type GenerateTriggerRequest struct {
	Date      string `json:"date"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *GenerateTriggerRequest) Validate() error {
	var errs validator.ValidationErrors

	hasSingle := !validator.IsEmpty(r.Date)
	hasRange := !validator.IsEmpty(r.StartDate) || !validator.IsEmpty(r.EndDate)

	switch {
	case hasSingle && hasRange:
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "provide either date or start_date/end_date, not both",
		})
	case !hasSingle && !hasRange:
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date or start_date/end_date is required",
		})
	case hasSingle:
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	default:
		start, okStart := validator.IsValidDate(r.StartDate)
		if !okStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		end, okEnd := validator.IsValidDate(r.EndDate)
		if !okEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		if okStart && okEnd && start.After(end) {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must not be after end_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReconcileTriggerRequest struct {
	Date string `json:"date"`
}

func (r *ReconcileTriggerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveRevokedRequest struct {
	LeaveID string `json:"leave_id"`
}

func (r *LeaveRevokedRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_id",
			Message: "leave_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
