package punch

import (
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
)

// NextType returns the type the day's cycle expects after the recorded punches.
// ok is false once OUT has been recorded.
func NextType(recorded []punch.Punch) (next punch.Type, ok bool) {
	if len(recorded) >= len(punch.Sequence) {
		return "", false
	}
	return punch.Sequence[len(recorded)], true
}

// ValidateNext checks that requested may follow the punches already recorded today. The caller
// must hold the per-day serialization for the employee.
func ValidateNext(requested punch.Type, recorded []punch.Punch) error {
	for _, p := range recorded {
		if p.Type == requested {
			return fmt.Errorf("%s already registered at %s: %w", requested, p.Timestamp.Format("15:04"), punch.ErrDuplicatePunchType)
		}
	}

	if len(recorded) >= len(punch.Sequence) {
		return fmt.Errorf("%d punches already recorded: %w", len(recorded), punch.ErrDayComplete)
	}

	expected, _ := NextType(recorded)
	if requested != expected {
		if len(recorded) == 0 {
			return fmt.Errorf("%w: the first punch of the day must be %s, got %s", punch.ErrInvalidSequence, expected, requested)
		}
		last := recorded[len(recorded)-1].Type
		return fmt.Errorf("%w: expected %s after %s, got %s", punch.ErrInvalidSequence, expected, last, requested)
	}

	return nil
}
