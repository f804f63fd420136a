package employee

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

// DefaultWeeklyHours applies when an employee has no contracted weekly hours.
var DefaultWeeklyHours = decimal.NewFromInt(40)

type Employee struct {
	ID                    string
	CompanyID             string
	FullName              string
	BaselineDate          *time.Time
	WeeklyContractedHours *decimal.Decimal
	ScheduleOverrides     []schedule.DailySchedule
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             *time.Time
}

func (e Employee) WeeklyHours() decimal.Decimal {
	if e.WeeklyContractedHours == nil || e.WeeklyContractedHours.IsZero() {
		return DefaultWeeklyHours
	}
	return *e.WeeklyContractedHours
}
