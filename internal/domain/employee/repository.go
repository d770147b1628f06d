package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns active employees holding the employee role.
	// Only these are candidates for attendance generation.
	ListActive(ctx context.Context) ([]Employee, error)
}
