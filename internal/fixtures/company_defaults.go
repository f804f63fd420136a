package fixtures

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func timeOfDay(hour, minute int) schedule.TimeOfDay {
	return schedule.TimeOfDay(hour*60 + minute)
}

func timeOfDayPtr(hour, minute int) *schedule.TimeOfDay {
	t := timeOfDay(hour, minute)
	return &t
}

func float64Ptr(f float64) *float64 { return &f }

// ==========================================
// STANDARD OFFICE HOURS
// ==========================================

// StandardOfficeHours returns Monday to Friday 08:00-17:00 with a 12:00-13:00 break,
// eight expected hours a day.
func StandardOfficeHours(source schedule.Source, ownerID string) []schedule.DailySchedule {
	schedules := make([]schedule.DailySchedule, 0, 5)
	for day := time.Monday; day <= time.Friday; day++ {
		schedules = append(schedules, schedule.DailySchedule{
			Source:     source,
			OwnerID:    ownerID,
			Weekday:    day,
			Active:     true,
			StartTime:  timeOfDay(8, 0),
			EndTime:    timeOfDay(17, 0),
			HasBreak:   true,
			BreakStart: timeOfDayPtr(12, 0),
			BreakEnd:   timeOfDayPtr(13, 0),
		})
	}
	return schedules
}

// ==========================================
// HALF DAY SHIFT
// ==========================================

// HalfDayShift returns a single 09:00-13:00 weekday without a break.
func HalfDayShift(source schedule.Source, ownerID string, weekday time.Weekday) schedule.DailySchedule {
	return schedule.DailySchedule{
		Source:    source,
		OwnerID:   ownerID,
		Weekday:   weekday,
		Active:    true,
		StartTime: timeOfDay(9, 0),
		EndTime:   timeOfDay(13, 0),
	}
}

// ==========================================
// COMPANY & EMPLOYEE
// ==========================================

// Company returns a company on standard office hours with a 100m geofence around (0, 0)
// that accepts outside punches pending justification.
func Company(id string) company.Company {
	return company.Company{
		ID:                                  id,
		Name:                                "Acme",
		GeofenceLatitude:                    float64Ptr(0),
		GeofenceLongitude:                   float64Ptr(0),
		GeofenceRadiusMeters:                100,
		EntryToleranceMinutes:               10,
		ExitToleranceMinutes:                10,
		AllowOutsideGeofence:                true,
		RequireJustificationOutsideGeofence: true,
		DefaultSchedules:                    StandardOfficeHours(schedule.SourceCompany, id),
	}
}

// Employee returns an employee with no overrides whose balance counts from baseline.
func Employee(id, companyID string, baseline time.Time) employee.Employee {
	return employee.Employee{
		ID:           id,
		CompanyID:    companyID,
		FullName:     "Employee " + id,
		BaselineDate: &baseline,
	}
}
