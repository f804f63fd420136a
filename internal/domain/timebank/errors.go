package timebank

import "errors"

var (
	ErrBaselineNotConfigured = errors.New("employee has no baseline date configured")
)
