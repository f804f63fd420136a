package timebank

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

// WorkedHours is worked time keyed by calendar date (YYYY-MM-DD).
type WorkedHours struct {
	PerDay map[string]time.Duration
	Total  time.Duration
}

// CalculateDay pairs one day's punches into worked segments: IN to BREAK_START (or OUT when no
// break was taken) and BREAK_END to OUT. Incomplete days contribute only their closed segments.
func CalculateDay(punches []punch.Punch) time.Duration {
	ordered := make([]punch.Punch, len(punches))
	copy(ordered, punches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var (
		worked       time.Duration
		inTime       *time.Time
		breakEndTime *time.Time
	)
	for _, p := range ordered {
		ts := p.Timestamp
		switch p.Type {
		case punch.TypeIn:
			inTime = &ts
		case punch.TypeBreakStart:
			if inTime != nil {
				worked += ts.Sub(*inTime)
				// The morning segment is closed; OUT must not count it twice.
				inTime = nil
			}
		case punch.TypeBreakEnd:
			breakEndTime = &ts
		case punch.TypeOut:
			if breakEndTime != nil {
				worked += ts.Sub(*breakEndTime)
			} else if inTime != nil {
				worked += ts.Sub(*inTime)
			}
		}
	}

	if worked < 0 {
		return 0
	}
	return worked
}

// CalculateWorkedHours groups punches by their calendar date and sums each day. Only punches
// whose status counts toward the balance are considered.
func CalculateWorkedHours(punches []punch.Punch) WorkedHours {
	byDate := make(map[string][]punch.Punch)
	for _, p := range punches {
		if !p.Status.CountsTowardBalance() {
			continue
		}
		key := utils.FormatDate(p.Date)
		byDate[key] = append(byDate[key], p)
	}

	result := WorkedHours{PerDay: make(map[string]time.Duration, len(byDate))}
	for date, dayPunches := range byDate {
		worked := CalculateDay(dayPunches)
		result.PerDay[date] = worked
		result.Total += worked
	}
	return result
}
