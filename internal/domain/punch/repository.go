package punch

import (
	"context"
	"time"
)

// PunchFilter narrows punch listings. StartDate and EndDate are inclusive calendar dates.
type PunchFilter struct {
	EmployeeID string
	StartDate  *time.Time
	EndDate    *time.Time
	Statuses   []Status
}

type PunchRepository interface {
	// Create inserts a punch. A second punch of the same type on the same day yields ErrDuplicatePunchType.
	Create(ctx context.Context, p Punch) (Punch, error)

	GetByID(ctx context.Context, id string) (Punch, error)

	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListByEmployeeAndDate returns the day's punches ordered by timestamp.
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Punch, error)

	// List returns punches ordered by timestamp.
	List(ctx context.Context, filter PunchFilter) ([]Punch, error)

	// GetLastByEmployee returns nil when the employee never punched.
	GetLastByEmployee(ctx context.Context, employeeID string) (*Punch, error)

	// LockEmployeeDay serializes punch registration for (employee, date) until the surrounding transaction ends.
	LockEmployeeDay(ctx context.Context, employeeID string, date time.Time) error
}
