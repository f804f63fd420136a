package absence

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	timebankservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/timebank"
)

// Detection is the absence a past working day calls for.
type Detection struct {
	Kind         absence.Kind
	Reason       string
	LateMinutes  *int
	EarlyMinutes *int
}

// Classify inspects everything the employee recorded on a working day, whatever its status.
// ok is false when the day has both IN and OUT.
func Classify(recorded []punch.Punch, daySchedule schedule.DailySchedule) (detection Detection, ok bool) {
	if len(recorded) == 0 {
		return Detection{Kind: absence.KindFullUnjustified, Reason: "no punches recorded"}, true
	}

	var hasIn, hasOut bool
	for _, p := range recorded {
		switch p.Type {
		case punch.TypeIn:
			hasIn = true
		case punch.TypeOut:
			hasOut = true
		}
	}

	missing := missingMinutes(recorded, daySchedule)

	switch {
	case hasIn && hasOut:
		return Detection{}, false
	case hasIn:
		return Detection{Kind: absence.KindEarlyDeparture, Reason: "missing check-out", EarlyMinutes: &missing}, true
	case hasOut:
		return Detection{Kind: absence.KindLateArrival, Reason: "missing check-in", LateMinutes: &missing}, true
	default:
		return Detection{Kind: absence.KindPartial, Reason: "only break punches recorded"}, true
	}
}

// missingMinutes is the expected time the recorded segments do not cover.
func missingMinutes(recorded []punch.Punch, daySchedule schedule.DailySchedule) int {
	missing := daySchedule.ExpectedDuration() - timebankservice.CalculateDay(recorded)
	if missing < 0 {
		return 0
	}
	return int(missing / time.Minute)
}
