package timebank

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/stretchr/testify/assert"
)

func clockEvent(typ punch.Type, day, hour, minute int, status punch.Status) punch.Punch {
	ts := time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
	return punch.Punch{
		Type:      typ,
		Timestamp: ts,
		Date:      time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func TestCalculateDay(t *testing.T) {
	approved := punch.StatusApproved

	tests := []struct {
		name    string
		punches []punch.Punch
		want    time.Duration
	}{
		{
			name: "full day with break",
			punches: []punch.Punch{
				clockEvent(punch.TypeIn, 2, 8, 0, approved),
				clockEvent(punch.TypeBreakStart, 2, 12, 0, approved),
				clockEvent(punch.TypeBreakEnd, 2, 13, 0, approved),
				clockEvent(punch.TypeOut, 2, 17, 0, approved),
			},
			want: 8 * time.Hour,
		},
		{
			name: "no break taken",
			punches: []punch.Punch{
				clockEvent(punch.TypeIn, 2, 8, 0, approved),
				clockEvent(punch.TypeOut, 2, 17, 0, approved),
			},
			want: 9 * time.Hour,
		},
		{
			name: "unordered input is sorted by timestamp",
			punches: []punch.Punch{
				clockEvent(punch.TypeOut, 2, 17, 0, approved),
				clockEvent(punch.TypeBreakEnd, 2, 13, 0, approved),
				clockEvent(punch.TypeIn, 2, 8, 0, approved),
				clockEvent(punch.TypeBreakStart, 2, 12, 0, approved),
			},
			want: 8 * time.Hour,
		},
		{
			name: "only IN contributes nothing",
			punches: []punch.Punch{
				clockEvent(punch.TypeIn, 2, 8, 0, approved),
			},
			want: 0,
		},
		{
			name: "still on break counts the morning",
			punches: []punch.Punch{
				clockEvent(punch.TypeIn, 2, 8, 0, approved),
				clockEvent(punch.TypeBreakStart, 2, 12, 30, approved),
			},
			want: 4*time.Hour + 30*time.Minute,
		},
		{
			name: "OUT without IN contributes nothing",
			punches: []punch.Punch{
				clockEvent(punch.TypeOut, 2, 17, 0, approved),
			},
			want: 0,
		},
		{
			name:    "no punches",
			punches: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateDay(tt.punches))
		})
	}
}

func TestCalculateWorkedHours_CountsOnlyApprovedAndJustified(t *testing.T) {
	punches := []punch.Punch{
		clockEvent(punch.TypeIn, 2, 8, 0, punch.StatusApproved),
		clockEvent(punch.TypeOut, 2, 17, 0, punch.StatusApproved),

		clockEvent(punch.TypeIn, 3, 8, 0, punch.StatusJustified),
		clockEvent(punch.TypeOut, 3, 12, 0, punch.StatusApproved),

		clockEvent(punch.TypeIn, 4, 8, 0, punch.StatusPending),
		clockEvent(punch.TypeOut, 4, 17, 0, punch.StatusApproved),

		clockEvent(punch.TypeIn, 5, 8, 0, punch.StatusRejected),
		clockEvent(punch.TypeOut, 5, 17, 0, punch.StatusRejected),
	}

	worked := CalculateWorkedHours(punches)

	assert.Equal(t, 9*time.Hour, worked.PerDay["2024-01-02"])
	assert.Equal(t, 4*time.Hour, worked.PerDay["2024-01-03"])
	assert.Equal(t, time.Duration(0), worked.PerDay["2024-01-04"], "OUT alone cannot be paired")
	assert.NotContains(t, worked.PerDay, "2024-01-05")
	assert.Equal(t, 13*time.Hour, worked.Total)
}
