package justification

import "errors"

var (
	ErrJustificationNotFound         = errors.New("justification not found")
	ErrOpenJustificationExists       = errors.New("punch already has an open justification")
	ErrJustificationAlreadyProcessed = errors.New("justification has already been approved or rejected")
	ErrNotPunchOwner                 = errors.New("punch belongs to another employee")
)
