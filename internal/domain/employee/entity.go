package employee

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Employee is the slice of the user directory the generation engine
// needs. Profile, credentials and org placement live elsewhere.
type Employee struct {
	ID             string
	FullName       string
	Role           Role
	Active         bool
	WorkScheduleID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
