package company

import "context"

type CompanyRepository interface {
	// GetByID returns the company with its default schedules.
	GetByID(ctx context.Context, id string) (Company, error)
	ListIDs(ctx context.Context) ([]string, error)
}
