package punch

import (
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

type geofenceResult struct {
	Within   bool
	Distance *float64
	Status   punch.Status
}

// evaluateGeofence decides the initial status of a punch from where it was recorded.
// Outside the area the policy precedence is disallow, then require justification, then auto-approve.
// A company without a geofence accepts every punch.
func evaluateGeofence(comp company.Company, latitude, longitude *float64) (geofenceResult, error) {
	if !comp.HasGeofence() {
		return geofenceResult{Within: true, Status: punch.StatusApproved}, nil
	}

	result := geofenceResult{}
	if latitude != nil && longitude != nil {
		within, distance := utils.IsWithinRadius(
			*comp.GeofenceLatitude, *comp.GeofenceLongitude,
			float64(comp.GeofenceRadiusMeters),
			*latitude, *longitude,
		)
		result.Within = within
		result.Distance = &distance
	}

	if result.Within {
		result.Status = punch.StatusApproved
		return result, nil
	}

	switch {
	case !comp.AllowOutsideGeofence:
		if result.Distance == nil {
			return geofenceResult{}, fmt.Errorf("%w: location is required", punch.ErrOutsideGeofence)
		}
		return geofenceResult{}, fmt.Errorf("%w: %.0fm from the company, allowed radius %dm",
			punch.ErrOutsideGeofence, *result.Distance, comp.GeofenceRadiusMeters)
	case comp.RequireJustificationOutsideGeofence:
		result.Status = punch.StatusPending
	default:
		result.Status = punch.StatusApproved
	}

	return result, nil
}
