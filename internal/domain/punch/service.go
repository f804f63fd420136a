package punch

import "context"

type PunchService interface {
	// RegisterPunch stamps a new punch with the current time after sequence, absence and geofence checks
	RegisterPunch(ctx context.Context, req RegisterPunchRequest) (PunchResponse, error)

	// ListPunches returns an employee's punches, optionally within a date range
	ListPunches(ctx context.Context, req ListPunchesRequest) ([]PunchResponse, error)

	// GetLastPunch returns nil when the employee has no punches
	GetLastPunch(ctx context.Context, employeeID string) (*PunchResponse, error)

	// GetPunchesForDay returns one day's punches and the next expected type
	GetPunchesForDay(ctx context.Context, employeeID string, date string) (DayPunchesResponse, error)
}
