package justification

import "time"

type Category string

const (
	CategoryOutsideGeofence Category = "OUTSIDE_GEOFENCE"
	CategoryTechnicalIssue  Category = "TECHNICAL_ISSUE"
	CategoryExternalMeeting Category = "EXTERNAL_MEETING"
	CategoryBusinessTrip    Category = "BUSINESS_TRIP"
	CategoryOther           Category = "OTHER"
)

var CategoryValues = []string{
	string(CategoryOutsideGeofence),
	string(CategoryTechnicalIssue),
	string(CategoryExternalMeeting),
	string(CategoryBusinessTrip),
	string(CategoryOther),
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Justification is an appeal attached to a single PENDING punch.
type Justification struct {
	ID         string
	PunchID    string
	EmployeeID string
	CompanyID  string
	Category   Category
	Reason     string
	Status     Status
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (j Justification) IsPending() bool {
	return j.Status == StatusPending
}

type Stats struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}
