package timebank

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	scheduleservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
	"github.com/shopspring/decimal"
)

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

type TimeBankServiceImpl struct {
	punch.PunchRepository
	absence.AbsenceRepository
	employee.EmployeeRepository
	company.CompanyRepository
	clock clock.Clock
}

// ComputeTimeBank implements timebank.TimeBankService.
func (s *TimeBankServiceImpl) ComputeTimeBank(ctx context.Context, req timebank.TimeBankRequest) (timebank.TimeBankResponse, error) {
	if err := req.Validate(); err != nil {
		return timebank.TimeBankResponse{}, err
	}

	start, end := utils.MonthRange(req.Year, time.Month(req.Month), s.clock.Location())
	return s.compute(ctx, req.EmployeeID, req.CompanyID, start, end)
}

// ComputeTimeBankRange implements timebank.TimeBankService.
func (s *TimeBankServiceImpl) ComputeTimeBankRange(ctx context.Context, req timebank.TimeBankRangeRequest) (timebank.TimeBankResponse, error) {
	if err := req.Validate(); err != nil {
		return timebank.TimeBankResponse{}, err
	}

	start, err := utils.ParseDate(req.StartDate, s.clock.Location())
	if err != nil {
		return timebank.TimeBankResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := utils.ParseDate(req.EndDate, s.clock.Location())
	if err != nil {
		return timebank.TimeBankResponse{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return s.compute(ctx, req.EmployeeID, req.CompanyID, start, end)
}

func (s *TimeBankServiceImpl) compute(ctx context.Context, employeeID, companyID string, start, end time.Time) (timebank.TimeBankResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return timebank.TimeBankResponse{}, err
	}
	if companyID != "" && emp.CompanyID != companyID {
		return timebank.TimeBankResponse{}, fmt.Errorf("employee with id %s: %w", employeeID, employee.ErrEmployeeNotFound)
	}
	if emp.BaselineDate == nil {
		return timebank.TimeBankResponse{}, fmt.Errorf("employee %s: %w", emp.ID, timebank.ErrBaselineNotConfigured)
	}
	comp, err := s.CompanyRepository.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return timebank.TimeBankResponse{}, err
	}

	loc := s.clock.Location()
	today := utils.DateOf(s.clock.Now())
	b := *emp.BaselineDate
	baseline := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)

	periodStart := utils.MaxDate(start, baseline)
	periodEnd := utils.MinDate(end, today)
	priorEnd := utils.MinDate(periodStart.AddDate(0, 0, -1), today)

	// One fetch covers both the period and everything before it since the baseline.
	var (
		punches  []punch.Punch
		absences []absence.Absence
	)
	if !today.Before(baseline) {
		punches, err = s.PunchRepository.List(ctx, punch.PunchFilter{
			EmployeeID: emp.ID,
			StartDate:  &baseline,
			EndDate:    &today,
			Statuses:   []punch.Status{punch.StatusApproved, punch.StatusJustified},
		})
		if err != nil {
			return timebank.TimeBankResponse{}, fmt.Errorf("failed to list punches of employee %s: %w", emp.ID, err)
		}

		approved := absence.StatusApproved
		absences, err = s.AbsenceRepository.List(ctx, absence.AbsenceFilter{
			EmployeeID: &emp.ID,
			Status:     &approved,
			StartDate:  &baseline,
			EndDate:    &today,
		})
		if err != nil {
			return timebank.TimeBankResponse{}, fmt.Errorf("failed to list absences of employee %s: %w", emp.ID, err)
		}
	}

	resolver := scheduleservice.NewResolver(scheduleservice.SnapshotOf(emp, comp))
	period := Reconcile(periodStart, periodEnd, resolver, punches, absences)
	prior := Reconcile(baseline, priorEnd, resolver, punches, absences)

	response := timebank.TimeBankResponse{
		EmployeeID:     emp.ID,
		BalancePeriod:  hours(period.Balance()),
		WorkedHours:    hours(period.Worked),
		ExpectedHours:  hours(period.Expected),
		JustifiedHours: hours(period.Justified),
		BalanceTotal:   hours(period.Balance() + prior.Balance()),
		DaysWorked:     period.DaysWorked,
		WorkingDays:    period.WorkingDays,
		WeeklyHours:    emp.WeeklyHours().Round(2).InexactFloat64(),
		WeeksInPeriod:  (period.Days + 6) / 7,
	}
	if !period.Empty() {
		response.PeriodStart = utils.FormatDate(period.Start)
		response.PeriodEnd = utils.FormatDate(period.End)
	}

	return response, nil
}

// hours converts d to hours rounded half away from zero to two decimals.
func hours(d time.Duration) float64 {
	return decimal.NewFromInt(d.Milliseconds()).DivRound(millisPerHour, 2).InexactFloat64()
}

func NewTimeBankService(
	punchRepo punch.PunchRepository,
	absenceRepo absence.AbsenceRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	clk clock.Clock,
) timebank.TimeBankService {
	return &TimeBankServiceImpl{
		PunchRepository:    punchRepo,
		AbsenceRepository:  absenceRepo,
		EmployeeRepository: employeeRepo,
		CompanyRepository:  companyRepo,
		clock:              clk,
	}
}
