package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes after midnight.
type TimeOfDay int

// ParseTimeOfDay parses 24-hour "HH:MM".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On returns the instant of t on the given calendar date.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Source tells whether a schedule is an employee override or a company default.
type Source string

const (
	SourceEmployee Source = "employee"
	SourceCompany  Source = "company"
)

// DailySchedule is the working window of one weekday.
type DailySchedule struct {
	ID         string
	Source     Source
	OwnerID    string
	Weekday    time.Weekday
	Active     bool
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	HasBreak   bool
	BreakStart *TimeOfDay
	BreakEnd   *TimeOfDay
}

// ExpectedDuration is the working time of the day: end minus start minus the break.
// Inactive or inverted windows expect nothing.
func (d DailySchedule) ExpectedDuration() time.Duration {
	if !d.Active || d.EndTime <= d.StartTime {
		return 0
	}

	minutes := int(d.EndTime - d.StartTime)
	if d.HasBreak && d.BreakStart != nil && d.BreakEnd != nil && *d.BreakEnd > *d.BreakStart {
		minutes -= int(*d.BreakEnd - *d.BreakStart)
	}
	if minutes < 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

// Snapshot is the flat, pre-fetched set of schedules one employee's days resolve against.
type Snapshot struct {
	EmployeeOverrides []DailySchedule
	CompanyDefaults   []DailySchedule
}
