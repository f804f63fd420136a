package company

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

type Company struct {
	ID                                  string
	Name                                string
	GeofenceLatitude                    *float64
	GeofenceLongitude                   *float64
	GeofenceRadiusMeters                int
	EntryToleranceMinutes               int
	ExitToleranceMinutes                int
	AllowOutsideGeofence                bool
	RequireJustificationOutsideGeofence bool
	DefaultSchedules                    []schedule.DailySchedule
	CreatedAt                           time.Time
	UpdatedAt                           time.Time
}

// HasGeofence reports whether punches are checked against a circular area.
func (c Company) HasGeofence() bool {
	return c.GeofenceLatitude != nil && c.GeofenceLongitude != nil && c.GeofenceRadiusMeters > 0
}
