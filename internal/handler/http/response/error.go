package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrEmployeeIDRequired),
		errors.Is(err, auth.ErrCompanyIDRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Punch rule violations
	case errors.Is(err, punch.ErrInvalidSequence),
		errors.Is(err, punch.ErrDuplicatePunchType),
		errors.Is(err, punch.ErrDayComplete),
		errors.Is(err, punch.ErrDayMarkedAbsent),
		errors.Is(err, schedule.ErrNoSchedule),
		errors.Is(err, schedule.ErrInvalidTimeOfDay):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, punch.ErrOutsideGeofence):
		Forbidden(w, "Punch location is outside the company geofence")
	case errors.Is(err, justification.ErrNotPunchOwner):
		Forbidden(w, "Punch belongs to another employee")

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, justification.ErrJustificationNotFound):
		NotFound(w, "Justification not found")

	// Conflicts
	case errors.Is(err, absence.ErrAbsenceAlreadyExists):
		Conflict(w, "Absence already registered for this date")
	case errors.Is(err, absence.ErrAbsenceAlreadyProcessed):
		Conflict(w, "Absence already processed")
	case errors.Is(err, absence.ErrApprovedAbsenceLocked):
		Conflict(w, "Approved absence cannot be deleted")
	case errors.Is(err, justification.ErrOpenJustificationExists):
		Conflict(w, "Punch already has an open justification")
	case errors.Is(err, justification.ErrJustificationAlreadyProcessed):
		Conflict(w, "Justification already processed")
	case errors.Is(err, punch.ErrPunchNotPending):
		Conflict(w, "Punch is not pending")
	case errors.Is(err, lock.ErrNotObtained):
		Conflict(w, "Another punch for this day is being registered, try again")

	// Configuration
	case errors.Is(err, timebank.ErrBaselineNotConfigured):
		UnprocessableEntity(w, "Employee has no baseline date configured")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
