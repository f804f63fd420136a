package absence

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

type Kind string

const (
	KindFullUnjustified Kind = "FULL_UNJUSTIFIED"
	KindFullJustified   Kind = "FULL_JUSTIFIED"
	KindPartial         Kind = "PARTIAL"
	KindLateArrival     Kind = "LATE_ARRIVAL"
	KindEarlyDeparture  Kind = "EARLY_DEPARTURE"
)

var KindValues = []string{
	string(KindFullUnjustified),
	string(KindFullJustified),
	string(KindPartial),
	string(KindLateArrival),
	string(KindEarlyDeparture),
}

// IsFullDay reports whether the absence covers the whole working day.
func (k Kind) IsFullDay() bool {
	return k == KindFullUnjustified || k == KindFullJustified
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
}

// Absence is a day-level record of missing or partial attendance. At most one exists per employee and date.
type Absence struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	Date           time.Time
	Kind           Kind
	Reason         string
	EffectiveStart *schedule.TimeOfDay
	EffectiveEnd   *schedule.TimeOfDay
	LateMinutes    *int
	EarlyMinutes   *int
	AutoDetected   bool
	Status         Status
	ReviewedBy     *string
	ReviewedAt     *time.Time
	ReviewNote     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Absence) IsPending() bool {
	return a.Status == StatusPending
}

// RecognizedDuration is the time credited to the employee once the absence is approved,
// given the day's expected working time. It never exceeds expected.
func (a Absence) RecognizedDuration(expected time.Duration) time.Duration {
	var recognized time.Duration

	switch a.Kind {
	case KindFullUnjustified, KindFullJustified:
		recognized = expected
	case KindPartial:
		recognized = expected
		if a.EffectiveStart != nil && a.EffectiveEnd != nil && *a.EffectiveEnd > *a.EffectiveStart {
			recognized -= time.Duration(*a.EffectiveEnd-*a.EffectiveStart) * time.Minute
		}
	case KindLateArrival:
		if a.LateMinutes != nil {
			recognized = time.Duration(*a.LateMinutes) * time.Minute
		}
	case KindEarlyDeparture:
		if a.EarlyMinutes != nil {
			recognized = time.Duration(*a.EarlyMinutes) * time.Minute
		}
	}

	if recognized < 0 {
		return 0
	}
	if recognized > expected {
		return expected
	}
	return recognized
}
