package absence

import (
	"context"
	"time"
)

// AbsenceFilter narrows absence listings. Dates are inclusive.
type AbsenceFilter struct {
	EmployeeID *string
	CompanyID  *string
	Status     *Status
	StartDate  *time.Time
	EndDate    *time.Time
}

type AbsenceRepository interface {
	// Create inserts an absence. A second absence for the same employee and date yields ErrAbsenceAlreadyExists.
	Create(ctx context.Context, a Absence) (Absence, error)

	GetByID(ctx context.Context, id string) (Absence, error)

	// GetByEmployeeAndDate returns nil when the day has no absence.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Absence, error)

	// Update persists status and review fields.
	Update(ctx context.Context, a Absence) error

	Delete(ctx context.Context, id string) error

	// List returns absences ordered by date.
	List(ctx context.Context, filter AbsenceFilter) ([]Absence, error)
}
