package punch

import (
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type RegisterPunchRequest struct {
	EmployeeID string   `json:"-"`
	Type       string   `json:"type" validate:"required,oneof=IN BREAK_START BREAK_END OUT"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Note       *string  `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *RegisterPunchRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs.Add("coordinates", "latitude and longitude must be provided together")
	}

	return errs.Err()
}

type ListPunchesRequest struct {
	// CompanyID, when set, restricts EmployeeID to that company.
	CompanyID  string  `json:"-"`
	EmployeeID string  `json:"employee_id" validate:"required"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,date"`
}

func (r *ListPunchesRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.StartDate != nil && r.EndDate != nil {
		start, okStart := validator.IsValidDate(*r.StartDate)
		end, okEnd := validator.IsValidDate(*r.EndDate)
		if okStart && okEnd && end.Before(start) {
			errs.Add("end_date", "end_date must be on or after start_date")
		}
	}

	return errs.Err()
}

type PunchResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	Type              string   `json:"type"`
	Timestamp         string   `json:"timestamp"`
	Date              string   `json:"date"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	WithinGeofence    bool     `json:"within_geofence"`
	DistanceMeters    *float64 `json:"distance_meters,omitempty"`
	Status            string   `json:"status"`
	Note              *string  `json:"note,omitempty"`
	LateMinutes       *int     `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes *int     `json:"early_leave_minutes,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

type DayPunchesResponse struct {
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date"`
	Punches    []PunchResponse `json:"punches"`
	NextType   *string         `json:"next_type,omitempty"`
	Complete   bool            `json:"complete"`
}
