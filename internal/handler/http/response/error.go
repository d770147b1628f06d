package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/auth"
	"github.com/kantorkita/presensi-backend-go/internal/domain/calendar"
	"github.com/kantorkita/presensi-backend-go/internal/domain/employee"
	"github.com/kantorkita/presensi-backend-go/internal/domain/leave"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrInvalidAPIKey):
		Unauthorized(w, "Invalid API key")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveNotApproved):
		Conflict(w, "Leave request is still approved")
	case errors.Is(err, leave.ErrInvalidLeaveKind):
		BadRequest(w, "Unknown leave kind", nil)

	// Calendar domain errors
	case errors.Is(err, calendar.ErrInvalidDate):
		BadRequest(w, "Date must be in YYYY-MM-DD format", nil)
	case errors.Is(err, calendar.ErrInvalidRange):
		BadRequest(w, "Start date must not be after end date", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this date")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Invalid attendance status", nil)
	case errors.Is(err, attendance.ErrEmployeeDirectoryUnavailable):
		ServiceUnavailable(w, "Employee directory is unavailable")

	// Default
	default:
		slog.Error("Unhandled error in HTTP response", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
