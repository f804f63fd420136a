package timebank

import (
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

type TimeBankRequest struct {
	// CompanyID, when set, restricts EmployeeID to that company.
	CompanyID  string `json:"-"`
	EmployeeID string `json:"employee_id" validate:"required"`
	Month      int    `json:"month" validate:"gte=1,lte=12"`
	Year       int    `json:"year" validate:"gte=1970,lte=9999"`
}

func (r *TimeBankRequest) Validate() error {
	return validator.ValidateStruct(r).Err()
}

type TimeBankRangeRequest struct {
	CompanyID  string `json:"-"`
	EmployeeID string `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,date"`
	EndDate    string `json:"end_date" validate:"required,date"`
}

func (r *TimeBankRangeRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	start, okStart := validator.IsValidDate(r.StartDate)
	end, okEnd := validator.IsValidDate(r.EndDate)
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	return errs.Err()
}

// TimeBankResponse reports hours rounded to two decimals. PeriodStart and PeriodEnd are the
// requested bounds after clamping to the baseline date and today; both are empty when nothing
// of the period is countable.
type TimeBankResponse struct {
	EmployeeID     string  `json:"employee_id"`
	PeriodStart    string  `json:"period_start,omitempty"`
	PeriodEnd      string  `json:"period_end,omitempty"`
	BalancePeriod  float64 `json:"balance_period"`
	WorkedHours    float64 `json:"worked_hours"`
	ExpectedHours  float64 `json:"expected_hours"`
	JustifiedHours float64 `json:"justified_hours"`
	BalanceTotal   float64 `json:"balance_total"`
	DaysWorked     int     `json:"days_worked"`
	WorkingDays    int     `json:"working_days"`
	WeeklyHours    float64 `json:"weekly_hours"`
	WeeksInPeriod  int     `json:"weeks_in_period"`
}
