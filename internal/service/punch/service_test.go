package punch

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type punchFixture struct {
	store   *memory.Store
	clock   *clock.FixedClock
	service punch.PunchService
}

// 2024-01-02 is a Tuesday.
func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 2, hour, minute, 0, 0, time.UTC)
}

func newPunchFixture(t *testing.T) *punchFixture {
	t.Helper()

	store := memory.NewStore()
	store.PutCompany(fixtures.Company("company-1"))
	store.PutEmployee(fixtures.Employee("emp-1", "company-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	clk := clock.Fixed(at(8, 0))
	return &punchFixture{
		store: store,
		clock: clk,
		service: NewPunchService(
			store.Transactor(),
			store.Punches(),
			store.Absences(),
			store.Employees(),
			store.Companies(),
			nil,
			clk,
		),
	}
}

func (f *punchFixture) register(t *testing.T, typ punch.Type, hour, minute int, lat, lon *float64) (punch.PunchResponse, error) {
	t.Helper()
	f.clock.Set(at(hour, minute))
	return f.service.RegisterPunch(context.Background(), punch.RegisterPunchRequest{
		EmployeeID: "emp-1",
		Type:       string(typ),
		Latitude:   lat,
		Longitude:  lon,
	})
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestRegisterPunch_FullDay(t *testing.T) {
	f := newPunchFixture(t)
	lat, lon := coords(0, 0)

	steps := []struct {
		typ          punch.Type
		hour, minute int
	}{
		{punch.TypeIn, 8, 5},
		{punch.TypeBreakStart, 12, 0},
		{punch.TypeBreakEnd, 13, 0},
		{punch.TypeOut, 17, 0},
	}
	for _, step := range steps {
		resp, err := f.register(t, step.typ, step.hour, step.minute, lat, lon)
		require.NoError(t, err, step.typ)
		assert.Equal(t, string(punch.StatusApproved), resp.Status)
		assert.True(t, resp.WithinGeofence)
		assert.Equal(t, "2024-01-02", resp.Date)
		assert.Nil(t, resp.LateMinutes, "IN within the entry tolerance is on time")
		assert.Nil(t, resp.EarlyLeaveMinutes)
	}

	_, err := f.register(t, punch.TypeIn, 17, 30, lat, lon)
	assert.ErrorIs(t, err, punch.ErrDuplicatePunchType)

	day, err := f.service.GetPunchesForDay(context.Background(), "emp-1", "2024-01-02")
	require.NoError(t, err)
	assert.Len(t, day.Punches, 4)
	assert.True(t, day.Complete)
	assert.Nil(t, day.NextType)
}

func TestRegisterPunch_RejectsOutOfOrder(t *testing.T) {
	f := newPunchFixture(t)
	lat, lon := coords(0, 0)

	_, err := f.register(t, punch.TypeBreakStart, 8, 0, lat, lon)
	assert.ErrorIs(t, err, punch.ErrInvalidSequence)

	_, err = f.register(t, punch.TypeIn, 8, 0, lat, lon)
	require.NoError(t, err)

	_, err = f.register(t, punch.TypeOut, 9, 0, lat, lon)
	assert.ErrorIs(t, err, punch.ErrInvalidSequence)

	punches, err := f.service.ListPunches(context.Background(), punch.ListPunchesRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Len(t, punches, 1)
}

func TestRegisterPunch_ReportsLateArrivalAndEarlyLeave(t *testing.T) {
	f := newPunchFixture(t)
	lat, lon := coords(0, 0)

	in, err := f.register(t, punch.TypeIn, 8, 30, lat, lon)
	require.NoError(t, err)
	require.NotNil(t, in.LateMinutes)
	assert.Equal(t, 30, *in.LateMinutes)
	assert.Equal(t, string(punch.StatusApproved), in.Status, "lateness never changes the status")

	_, err = f.register(t, punch.TypeBreakStart, 12, 0, lat, lon)
	require.NoError(t, err)
	_, err = f.register(t, punch.TypeBreakEnd, 13, 0, lat, lon)
	require.NoError(t, err)

	out, err := f.register(t, punch.TypeOut, 16, 0, lat, lon)
	require.NoError(t, err)
	require.NotNil(t, out.EarlyLeaveMinutes)
	assert.Equal(t, 60, *out.EarlyLeaveMinutes)
}

func TestRegisterPunch_GeofencePolicy(t *testing.T) {
	outsideLat, outsideLon := coords(0.002, 0)

	t.Run("outside requires justification", func(t *testing.T) {
		f := newPunchFixture(t)

		resp, err := f.register(t, punch.TypeIn, 8, 0, outsideLat, outsideLon)
		require.NoError(t, err)
		assert.Equal(t, string(punch.StatusPending), resp.Status)
		assert.False(t, resp.WithinGeofence)
		require.NotNil(t, resp.DistanceMeters)
		assert.InDelta(t, 222.4, *resp.DistanceMeters, 0.5)
	})

	t.Run("outside is auto-approved when justification is not required", func(t *testing.T) {
		f := newPunchFixture(t)
		comp := fixtures.Company("company-1")
		comp.RequireJustificationOutsideGeofence = false
		f.store.PutCompany(comp)

		resp, err := f.register(t, punch.TypeIn, 8, 0, outsideLat, outsideLon)
		require.NoError(t, err)
		assert.Equal(t, string(punch.StatusApproved), resp.Status)
		assert.False(t, resp.WithinGeofence)
	})

	t.Run("outside is refused when disallowed, even if justification is required", func(t *testing.T) {
		f := newPunchFixture(t)
		comp := fixtures.Company("company-1")
		comp.AllowOutsideGeofence = false
		f.store.PutCompany(comp)

		_, err := f.register(t, punch.TypeIn, 8, 0, outsideLat, outsideLon)
		assert.ErrorIs(t, err, punch.ErrOutsideGeofence)

		last, err := f.service.GetLastPunch(context.Background(), "emp-1")
		require.NoError(t, err)
		assert.Nil(t, last, "a refused punch is never stored")
	})

	t.Run("missing coordinates count as outside", func(t *testing.T) {
		f := newPunchFixture(t)

		resp, err := f.register(t, punch.TypeIn, 8, 0, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, string(punch.StatusPending), resp.Status)
		assert.Nil(t, resp.DistanceMeters)
	})

	t.Run("no geofence accepts everything", func(t *testing.T) {
		f := newPunchFixture(t)
		comp := fixtures.Company("company-1")
		comp.GeofenceLatitude, comp.GeofenceLongitude = nil, nil
		f.store.PutCompany(comp)

		resp, err := f.register(t, punch.TypeIn, 8, 0, outsideLat, outsideLon)
		require.NoError(t, err)
		assert.Equal(t, string(punch.StatusApproved), resp.Status)
		assert.True(t, resp.WithinGeofence)
	})
}

func TestRegisterPunch_NoScheduleOnDayOff(t *testing.T) {
	f := newPunchFixture(t)
	lat, lon := coords(0, 0)

	f.clock.Set(time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)) // Saturday
	_, err := f.service.RegisterPunch(context.Background(), punch.RegisterPunchRequest{
		EmployeeID: "emp-1",
		Type:       string(punch.TypeIn),
		Latitude:   lat,
		Longitude:  lon,
	})
	assert.ErrorIs(t, err, schedule.ErrNoSchedule)
}

func TestRegisterPunch_RefusedOnApprovedFullDayAbsence(t *testing.T) {
	f := newPunchFixture(t)
	lat, lon := coords(0, 0)

	_, err := f.store.Absences().Create(context.Background(), absence.Absence{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Date:       at(0, 0),
		Kind:       absence.KindFullJustified,
		Status:     absence.StatusApproved,
	})
	require.NoError(t, err)

	_, err = f.register(t, punch.TypeIn, 8, 0, lat, lon)
	assert.ErrorIs(t, err, punch.ErrDayMarkedAbsent)
}

func TestRegisterPunch_ValidatesRequest(t *testing.T) {
	f := newPunchFixture(t)
	lat := 0.0

	_, err := f.service.RegisterPunch(context.Background(), punch.RegisterPunchRequest{
		EmployeeID: "emp-1",
		Type:       "LUNCH",
		Latitude:   &lat,
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	fields := validationErrs.ToMap()
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "coordinates")
}

func TestListPunches_DateRange(t *testing.T) {
	f := newPunchFixture(t)
	lat, lon := coords(0, 0)

	_, err := f.register(t, punch.TypeIn, 8, 0, lat, lon)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC))
	_, err = f.service.RegisterPunch(context.Background(), punch.RegisterPunchRequest{
		EmployeeID: "emp-1", Type: string(punch.TypeIn), Latitude: lat, Longitude: lon,
	})
	require.NoError(t, err)

	start, end := "2024-01-03", "2024-01-03"
	punches, err := f.service.ListPunches(context.Background(), punch.ListPunchesRequest{
		EmployeeID: "emp-1",
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, "2024-01-03", punches[0].Date)

	last, err := f.service.GetLastPunch(context.Background(), "emp-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "2024-01-03", last.Date)

	day, err := f.service.GetPunchesForDay(context.Background(), "emp-1", "2024-01-02")
	require.NoError(t, err)
	require.NotNil(t, day.NextType)
	assert.Equal(t, string(punch.TypeBreakStart), *day.NextType)
	assert.False(t, day.Complete)
}

func TestListPunches_CompanyScope(t *testing.T) {
	f := newPunchFixture(t)

	_, err := f.service.ListPunches(context.Background(), punch.ListPunchesRequest{CompanyID: "company-2", EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	punches, err := f.service.ListPunches(context.Background(), punch.ListPunchesRequest{CompanyID: "company-1", EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Empty(t, punches)
}
