package justification

import (
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

// ========================================
// JUSTIFICATION DTOs
// ========================================

type CreateJustificationRequest struct {
	// EmployeeID, when set, must own the punch.
	EmployeeID string `json:"-"`
	PunchID    string `json:"punch_id" validate:"required"`
	Category   string `json:"category" validate:"required,oneof=OUTSIDE_GEOFENCE TECHNICAL_ISSUE EXTERNAL_MEETING BUSINESS_TRIP OTHER"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

func (r *CreateJustificationRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if validator.IsEmpty(r.Reason) && len(errs) == 0 {
		errs.Add("reason", "reason is required")
	}
	return errs.Err()
}

type ApproveJustificationRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"-"`
	CompanyID  string  `json:"-"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *ApproveJustificationRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

type RejectJustificationRequest struct {
	ID         string `json:"-"`
	ApproverID string `json:"-"`
	CompanyID  string `json:"-"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

func (r *RejectJustificationRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

type ListJustificationsRequest struct {
	CompanyID  *string `json:"company_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

func (r *ListJustificationsRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.CompanyID == nil && r.EmployeeID == nil {
		errs.Add("company_id", "company_id or employee_id is required")
	}

	return errs.Err()
}

type JustificationResponse struct {
	ID          string  `json:"id"`
	PunchID     string  `json:"punch_id"`
	EmployeeID  string  `json:"employee_id"`
	Category    string  `json:"category"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	PunchStatus *string `json:"punch_status,omitempty"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	ReviewNote  *string `json:"review_note,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type StatsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
