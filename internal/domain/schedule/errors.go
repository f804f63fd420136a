package schedule

import "errors"

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day, use HH:MM")
	ErrNoSchedule       = errors.New("no work schedule configured for this weekday")
)
