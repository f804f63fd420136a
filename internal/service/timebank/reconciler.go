package timebank

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	scheduleservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
)

// PeriodTotals holds unrounded durations of one inclusive date range.
type PeriodTotals struct {
	Start       time.Time
	End         time.Time
	Days        int
	Worked      time.Duration
	Expected    time.Duration
	Justified   time.Duration
	DaysWorked  int
	WorkingDays int
}

// Empty reports whether the range holds no calendar day.
func (t PeriodTotals) Empty() bool {
	return t.Days == 0
}

// Balance is worked plus recognized absence time minus expected time.
func (t PeriodTotals) Balance() time.Duration {
	return t.Worked + t.Justified - t.Expected
}

// Reconcile totals [start, end]. punches and absences may span more than the range and carry any
// status: only APPROVED or JUSTIFIED punches and APPROVED absences dated inside the range count.
func Reconcile(start, end time.Time, resolver *scheduleservice.Resolver, punches []punch.Punch, absences []absence.Absence) PeriodTotals {
	totals := PeriodTotals{Start: start, End: end, Days: utils.DaysInclusive(start, end)}
	if totals.Empty() {
		return totals
	}

	from, to := utils.FormatDate(start), utils.FormatDate(end)
	inRange := func(date time.Time) bool {
		key := utils.FormatDate(date)
		return key >= from && key <= to
	}

	_ = utils.EachDate(start, end, func(date time.Time) error {
		expected := resolver.ExpectedDuration(date)
		totals.Expected += expected
		if expected > 0 {
			totals.WorkingDays++
		}
		return nil
	})

	var counted []punch.Punch
	for _, p := range punches {
		if inRange(p.Date) && p.Status.CountsTowardBalance() {
			counted = append(counted, p)
		}
	}
	worked := CalculateWorkedHours(counted)
	totals.Worked = worked.Total
	totals.DaysWorked = len(worked.PerDay)

	for _, a := range absences {
		if a.Status != absence.StatusApproved || !inRange(a.Date) {
			continue
		}
		totals.Justified += a.RecognizedDuration(resolver.ExpectedDuration(a.Date))
	}

	return totals
}
