package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingClaim       = errors.New("token is missing a required claim")
	ErrEmployeeIDRequired = errors.New("token is not bound to an employee")
	ErrCompanyIDRequired  = errors.New("token is not bound to a company")
)
