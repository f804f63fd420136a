package justification

import "context"

type JustificationFilter struct {
	CompanyID  *string
	EmployeeID *string
	Status     *Status
}

type JustificationRepository interface {
	// Create inserts a justification. A second PENDING justification for the same punch yields ErrOpenJustificationExists.
	Create(ctx context.Context, j Justification) (Justification, error)

	GetByID(ctx context.Context, id string) (Justification, error)

	// GetPendingByPunchID returns nil when the punch has no open justification.
	GetPendingByPunchID(ctx context.Context, punchID string) (*Justification, error)

	// Update persists status and review fields.
	Update(ctx context.Context, j Justification) error

	// List returns justifications newest first.
	List(ctx context.Context, filter JustificationFilter) ([]Justification, error)

	CountByStatus(ctx context.Context, companyID string) (Stats, error)
}
