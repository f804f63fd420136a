package justification

import "context"

type JustificationService interface {
	// CreateJustification opens an appeal for a PENDING punch
	CreateJustification(ctx context.Context, req CreateJustificationRequest) (JustificationResponse, error)

	GetJustification(ctx context.Context, id string, companyID string) (JustificationResponse, error)
	ListJustifications(ctx context.Context, req ListJustificationsRequest) ([]JustificationResponse, error)

	// ApproveJustification moves the punch to JUSTIFIED
	ApproveJustification(ctx context.Context, req ApproveJustificationRequest) (JustificationResponse, error)

	// RejectJustification moves the punch to REJECTED
	RejectJustification(ctx context.Context, req RejectJustificationRequest) (JustificationResponse, error)

	GetStats(ctx context.Context, companyID string) (StatsResponse, error)
}
