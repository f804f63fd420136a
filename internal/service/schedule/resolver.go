package schedule

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

// Resolver answers which schedule applies to one employee on a date. It works on a
// pre-fetched snapshot and never touches storage.
type Resolver struct {
	overrides map[time.Weekday]schedule.DailySchedule
	defaults  map[time.Weekday]schedule.DailySchedule
}

// SnapshotOf flattens the schedules an employee resolves against.
func SnapshotOf(emp employee.Employee, comp company.Company) schedule.Snapshot {
	return schedule.Snapshot{
		EmployeeOverrides: emp.ScheduleOverrides,
		CompanyDefaults:   comp.DefaultSchedules,
	}
}

func NewResolver(snapshot schedule.Snapshot) *Resolver {
	return &Resolver{
		overrides: indexByWeekday(snapshot.EmployeeOverrides),
		defaults:  indexByWeekday(snapshot.CompanyDefaults),
	}
}

// indexByWeekday keeps the first active entry of each weekday.
func indexByWeekday(schedules []schedule.DailySchedule) map[time.Weekday]schedule.DailySchedule {
	index := make(map[time.Weekday]schedule.DailySchedule, len(schedules))
	for _, s := range schedules {
		if !s.Active {
			continue
		}
		if _, exists := index[s.Weekday]; !exists {
			index[s.Weekday] = s
		}
	}
	return index
}

// Resolve returns the active employee override for the date's weekday, else the active company
// default. ok is false on a day off.
func (r *Resolver) Resolve(date time.Time) (resolved schedule.DailySchedule, ok bool) {
	weekday := date.Weekday()
	if s, found := r.overrides[weekday]; found {
		return s, true
	}
	if s, found := r.defaults[weekday]; found {
		return s, true
	}
	return schedule.DailySchedule{}, false
}

// ExpectedDuration is zero on days off.
func (r *Resolver) ExpectedDuration(date time.Time) time.Duration {
	s, ok := r.Resolve(date)
	if !ok {
		return 0
	}
	return s.ExpectedDuration()
}
