package leave

import (
	"time"
)

// Kind maps to the leave_kind_enum in DB
type Kind string

const (
	KindSick         Kind = "sick"
	KindPersonal     Kind = "personal"
	KindAnnual       Kind = "annual"
	KindExtended     Kind = "extended"
	KindSickLeave    Kind = "sick_leave"
	KindMaternity    Kind = "maternity"
	KindOfficialDuty Kind = "official_duty"
	KindDutyTravel   Kind = "duty_travel"
)

// Kinds lists every valid leave kind, used for validation. Sick is a
// same-day sickness report; sick_leave is the formally granted leave.
var Kinds = []Kind{
	KindSick,
	KindPersonal,
	KindAnnual,
	KindExtended,
	KindSickLeave,
	KindMaternity,
	KindOfficialDuty,
	KindDutyTravel,
}

// IsValid reports whether k is a known leave kind.
func (k Kind) IsValid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusExpired   RequestStatus = "expired"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// LeaveRequest entity. The generation engine consumes these read-only;
// creation and approval belong to the leave-management surface.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Kind       Kind
	Status     RequestStatus
	Reason     string
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether date falls inside the request's range,
// comparing calendar days only.
func (lr LeaveRequest) Covers(date time.Time) bool {
	day := date.Format("2006-01-02")
	return day >= lr.StartDate.Format("2006-01-02") && day <= lr.EndDate.Format("2006-01-02")
}
