package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns the employee with their schedule overrides.
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
