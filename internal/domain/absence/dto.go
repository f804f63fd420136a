package absence

import (
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

// ========================================
// ABSENCE DTOs
// ========================================

type RegisterAbsenceRequest struct {
	CompanyID      string  `json:"-"`
	EmployeeID     string  `json:"employee_id" validate:"required"`
	Date           string  `json:"date" validate:"required,date"`
	Kind           string  `json:"kind" validate:"required,oneof=FULL_UNJUSTIFIED FULL_JUSTIFIED PARTIAL LATE_ARRIVAL EARLY_DEPARTURE"`
	Reason         string  `json:"reason" validate:"max=1000"`
	EffectiveStart *string `json:"effective_start,omitempty" validate:"omitempty,timeofday"`
	EffectiveEnd   *string `json:"effective_end,omitempty" validate:"omitempty,timeofday"`
	LateMinutes    *int    `json:"late_minutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
	EarlyMinutes   *int    `json:"early_minutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
}

func (r *RegisterAbsenceRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.EffectiveStart != nil && r.EffectiveEnd != nil &&
		validator.IsValidTimeOfDay(*r.EffectiveStart) && validator.IsValidTimeOfDay(*r.EffectiveEnd) &&
		*r.EffectiveEnd <= *r.EffectiveStart {
		errs.Add("effective_end", "effective_end must be after effective_start")
	}

	return errs.Err()
}

type ApproveAbsenceRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"-"`
	CompanyID  string  `json:"-"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *ApproveAbsenceRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

type RejectAbsenceRequest struct {
	ID         string `json:"-"`
	ApproverID string `json:"-"`
	CompanyID  string `json:"-"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

func (r *RejectAbsenceRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

type ListAbsencesRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	CompanyID  *string `json:"company_id,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,date"`
}

func (r *ListAbsencesRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.EmployeeID == nil && r.CompanyID == nil {
		errs.Add("employee_id", "employee_id or company_id is required")
	}

	return errs.Err()
}

type DetectAbsencesRequest struct {
	CompanyID string `json:"-"`
	Date      string `json:"date" validate:"required,date"`
}

func (r *DetectAbsencesRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.CompanyID) {
		errs.Add("company_id", "company_id is required")
	}

	return errs.Err()
}

type DetectAbsencesRangeRequest struct {
	CompanyID string `json:"-"`
	StartDate string `json:"start_date" validate:"required,date"`
	EndDate   string `json:"end_date" validate:"required,date"`
}

func (r *DetectAbsencesRangeRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.CompanyID) {
		errs.Add("company_id", "company_id is required")
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	end, okEnd := validator.IsValidDate(r.EndDate)
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	return errs.Err()
}

type AbsenceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	CompanyID      string  `json:"company_id"`
	Date           string  `json:"date"`
	Kind           string  `json:"kind"`
	Reason         string  `json:"reason"`
	EffectiveStart *string `json:"effective_start,omitempty"`
	EffectiveEnd   *string `json:"effective_end,omitempty"`
	LateMinutes    *int    `json:"late_minutes,omitempty"`
	EarlyMinutes   *int    `json:"early_minutes,omitempty"`
	AutoDetected   bool    `json:"auto_detected"`
	Status         string  `json:"status"`
	ReviewedBy     *string `json:"reviewed_by,omitempty"`
	ReviewedAt     *string `json:"reviewed_at,omitempty"`
	ReviewNote     *string `json:"review_note,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type DetectionFailure struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Error      string `json:"error"`
}

// DetectionReport is the per-item outcome of a detection batch.
type DetectionReport struct {
	CompanyID string             `json:"company_id"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Created   []AbsenceResponse  `json:"created"`
	Skipped   int                `json:"skipped"`
	Failures  []DetectionFailure `json:"failures"`
}
