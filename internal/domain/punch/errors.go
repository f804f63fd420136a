package punch

import "errors"

var (
	// Sequencing errors
	ErrInvalidSequence    = errors.New("invalid punch sequence")
	ErrDuplicatePunchType = errors.New("punch type already registered for this day")
	ErrDayComplete        = errors.New("all punches for this day are already registered")
	ErrDayMarkedAbsent    = errors.New("day is registered as an approved absence")

	// Policy errors
	ErrOutsideGeofence = errors.New("punch location is outside the company geofence")

	// General errors
	ErrPunchNotFound   = errors.New("punch not found")
	ErrPunchNotPending = errors.New("punch is not pending")
)
