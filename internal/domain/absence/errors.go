package absence

import "errors"

var (
	ErrAbsenceNotFound         = errors.New("absence not found")
	ErrAbsenceAlreadyExists    = errors.New("absence already registered for this date")
	ErrAbsenceAlreadyProcessed = errors.New("absence has already been approved or rejected")
	ErrApprovedAbsenceLocked   = errors.New("approved absence cannot be deleted")
)
