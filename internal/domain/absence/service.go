package absence

import "context"

type AbsenceService interface {
	RegisterAbsence(ctx context.Context, req RegisterAbsenceRequest) (AbsenceResponse, error)
	GetAbsence(ctx context.Context, id string, companyID string) (AbsenceResponse, error)
	ListAbsences(ctx context.Context, req ListAbsencesRequest) ([]AbsenceResponse, error)

	// ApproveAbsence and RejectAbsence require the absence to be PENDING
	ApproveAbsence(ctx context.Context, req ApproveAbsenceRequest) (AbsenceResponse, error)
	RejectAbsence(ctx context.Context, req RejectAbsenceRequest) (AbsenceResponse, error)

	// DeleteAbsence refuses APPROVED absences
	DeleteAbsence(ctx context.Context, id string, companyID string) error

	// DetectAbsences scans every active employee of a company for one past date
	DetectAbsences(ctx context.Context, req DetectAbsencesRequest) (DetectionReport, error)

	// DetectAbsencesRange scans every active employee of a company over past dates, day by day per employee
	DetectAbsencesRange(ctx context.Context, req DetectAbsencesRangeRequest) (DetectionReport, error)

	// DetectForEmployee returns the created absence, or nil when the day needs none
	DetectForEmployee(ctx context.Context, employeeID string, date string) (*AbsenceResponse, error)
}
