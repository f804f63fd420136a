package timebank

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeBankFixture struct {
	store   *memory.Store
	clock   *clock.FixedClock
	service timebank.TimeBankService
}

// Baseline 2024-01-01 is a Monday; the company works Monday to Friday, eight hours a day.
func newTimeBankFixture(t *testing.T, now time.Time) *timeBankFixture {
	t.Helper()

	store := memory.NewStore()
	store.PutCompany(fixtures.Company("company-1"))
	store.PutEmployee(fixtures.Employee("emp-1", "company-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	clk := clock.Fixed(now)
	return &timeBankFixture{
		store:   store,
		clock:   clk,
		service: NewTimeBankService(store.Punches(), store.Absences(), store.Employees(), store.Companies(), clk),
	}
}

func (f *timeBankFixture) punches(t *testing.T, punches ...punch.Punch) {
	t.Helper()
	for _, p := range punches {
		p.EmployeeID = "emp-1"
		p.CompanyID = "company-1"
		_, err := f.store.Punches().Create(context.Background(), p)
		require.NoError(t, err)
	}
}

func (f *timeBankFixture) absence(t *testing.T, day int, kind absence.Kind, status absence.Status) {
	t.Helper()
	_, err := f.store.Absences().Create(context.Background(), absence.Absence{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Date:       time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Kind:       kind,
		Status:     status,
	})
	require.NoError(t, err)
}

func fullDay(day int, status punch.Status) []punch.Punch {
	return []punch.Punch{
		clockEvent(punch.TypeIn, day, 8, 0, status),
		clockEvent(punch.TypeBreakStart, day, 12, 0, status),
		clockEvent(punch.TypeBreakEnd, day, 13, 0, status),
		clockEvent(punch.TypeOut, day, 17, 0, status),
	}
}

func TestComputeTimeBank_Month(t *testing.T) {
	// Wednesday evening: Monday to Wednesday count, the rest of January is in the future.
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))

	f.absence(t, 1, absence.KindFullJustified, absence.StatusApproved)
	f.punches(t, fullDay(2, punch.StatusApproved)...)
	f.punches(t,
		clockEvent(punch.TypeIn, 3, 8, 0, punch.StatusApproved),
		clockEvent(punch.TypeOut, 3, 17, 0, punch.StatusApproved),
	)

	resp, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 1, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", resp.PeriodStart)
	assert.Equal(t, "2024-01-03", resp.PeriodEnd)
	assert.Equal(t, 24.0, resp.ExpectedHours)
	assert.Equal(t, 17.0, resp.WorkedHours)
	assert.Equal(t, 8.0, resp.JustifiedHours)
	assert.Equal(t, 1.0, resp.BalancePeriod)
	assert.Equal(t, 1.0, resp.BalanceTotal)
	assert.Equal(t, 2, resp.DaysWorked)
	assert.Equal(t, 3, resp.WorkingDays)
	assert.Equal(t, 40.0, resp.WeeklyHours)
	assert.Equal(t, 1, resp.WeeksInPeriod)
}

func TestComputeTimeBank_IsIdempotent(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	f.punches(t, fullDay(2, punch.StatusApproved)...)

	req := timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 1, Year: 2024}
	first, err := f.service.ComputeTimeBank(context.Background(), req)
	require.NoError(t, err)
	second, err := f.service.ComputeTimeBank(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeTimeBankRange_CumulativeSinceBaseline(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))

	// Monday: pending absence, not recognized. Tuesday: 8h. Wednesday: 9h.
	f.absence(t, 1, absence.KindFullUnjustified, absence.StatusPending)
	f.punches(t, fullDay(2, punch.StatusApproved)...)
	f.punches(t,
		clockEvent(punch.TypeIn, 3, 8, 0, punch.StatusApproved),
		clockEvent(punch.TypeOut, 3, 17, 0, punch.StatusApproved),
	)

	resp, err := f.service.ComputeTimeBankRange(context.Background(), timebank.TimeBankRangeRequest{
		EmployeeID: "emp-1",
		StartDate:  "2024-01-03",
		EndDate:    "2024-01-03",
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, resp.BalancePeriod)
	// Monday -8h, Tuesday 0h, Wednesday +1h.
	assert.Equal(t, -7.0, resp.BalanceTotal)
}

func TestComputeTimeBank_ExcludesPendingAndRejectedPunches(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	f.punches(t,
		clockEvent(punch.TypeIn, 1, 8, 0, punch.StatusPending),
		clockEvent(punch.TypeOut, 1, 17, 0, punch.StatusPending),
		clockEvent(punch.TypeIn, 2, 8, 0, punch.StatusRejected),
		clockEvent(punch.TypeOut, 2, 17, 0, punch.StatusRejected),
	)

	resp, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 1, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.WorkedHours)
	assert.Equal(t, 0, resp.DaysWorked)
	assert.Equal(t, -16.0, resp.BalancePeriod)
}

func TestComputeTimeBank_PartialAbsences(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))

	late := 45
	_, err := f.store.Absences().Create(context.Background(), absence.Absence{
		EmployeeID:  "emp-1",
		CompanyID:   "company-1",
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:        absence.KindLateArrival,
		LateMinutes: &late,
		Status:      absence.StatusApproved,
	})
	require.NoError(t, err)

	resp, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 1, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 0.75, resp.JustifiedHours)
	assert.Equal(t, -15.25, resp.BalancePeriod)
}

func TestComputeTimeBank_PeriodBeforeBaseline(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))

	resp, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 12, Year: 2023})
	require.NoError(t, err)

	assert.Empty(t, resp.PeriodStart)
	assert.Empty(t, resp.PeriodEnd)
	assert.Equal(t, 0.0, resp.ExpectedHours)
	assert.Equal(t, 0.0, resp.BalanceTotal)
	assert.Equal(t, 0, resp.WeeksInPeriod)
}

func TestComputeTimeBank_FuturePeriodCarriesBalanceSinceBaseline(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	f.punches(t, fullDay(2, punch.StatusApproved)...)

	resp, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 2, Year: 2024})
	require.NoError(t, err)

	assert.Empty(t, resp.PeriodStart)
	assert.Equal(t, 0.0, resp.BalancePeriod)
	// Monday -8h, Tuesday 0h, Wednesday -8h.
	assert.Equal(t, -16.0, resp.BalanceTotal)
}

func TestComputeTimeBank_WeeklyContractedHours(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	emp := fixtures.Employee("emp-1", "company-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	weekly := decimal.RequireFromString("37.5")
	emp.WeeklyContractedHours = &weekly
	f.store.PutEmployee(emp)

	resp, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 1, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 37.5, resp.WeeklyHours)
}

func TestComputeTimeBank_Errors(t *testing.T) {
	f := newTimeBankFixture(t, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	f.store.PutEmployee(employeeWithoutBaseline("emp-2"))

	_, err := f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-2", Month: 1, Year: 2024})
	assert.ErrorIs(t, err, timebank.ErrBaselineNotConfigured)

	_, err = f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "missing", Month: 1, Year: 2024})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{EmployeeID: "emp-1", Month: 13, Year: 2024})
	assert.Error(t, err)

	_, err = f.service.ComputeTimeBank(context.Background(), timebank.TimeBankRequest{CompanyID: "company-2", EmployeeID: "emp-1", Month: 1, Year: 2024})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound, "employees of other companies are hidden")
}

func employeeWithoutBaseline(id string) employee.Employee {
	emp := fixtures.Employee(id, "company-1", time.Time{})
	emp.BaselineDate = nil
	return emp
}

func TestHoursRounding(t *testing.T) {
	assert.Equal(t, 0.01, hours(30*time.Second))
	assert.Equal(t, -0.01, hours(-30*time.Second))
	assert.Equal(t, 1.33, hours(80*time.Minute))
}
