package punch

import (
	"time"
)

type Type string

const (
	TypeIn         Type = "IN"
	TypeBreakStart Type = "BREAK_START"
	TypeBreakEnd   Type = "BREAK_END"
	TypeOut        Type = "OUT"
)

// Sequence is the only order in which punches of a day may be recorded.
var Sequence = []Type{TypeIn, TypeBreakStart, TypeBreakEnd, TypeOut}

var TypeValues = []string{
	string(TypeIn),
	string(TypeBreakStart),
	string(TypeBreakEnd),
	string(TypeOut),
}

func (t Type) IsValid() bool {
	switch t {
	case TypeIn, TypeBreakStart, TypeBreakEnd, TypeOut:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusJustified Status = "JUSTIFIED"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusJustified),
}

// CountsTowardBalance reports whether a punch in this status contributes worked hours.
func (s Status) CountsTowardBalance() bool {
	return s == StatusApproved || s == StatusJustified
}

type Punch struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	Type              Type
	Timestamp         time.Time
	Date              time.Time
	Latitude          *float64
	Longitude         *float64
	WithinGeofence    bool
	DistanceMeters    *float64
	Status            Status
	Note              *string
	LateMinutes       *int
	EarlyLeaveMinutes *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
