package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateHaversineDistance(-6.2, 106.8, -6.2, 106.8))
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := CalculateHaversineDistance(-6.2, 106.8, -6.3, 106.9)
		ba := CalculateHaversineDistance(-6.3, 106.9, -6.2, 106.8)
		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("0.002 degrees of latitude is about 222 meters", func(t *testing.T) {
		assert.InDelta(t, 222.4, CalculateHaversineDistance(0, 0, 0.002, 0), 0.5)
	})
}

func TestIsWithinRadius(t *testing.T) {
	within, distance := IsWithinRadius(0, 0, 100, 0, 0)
	assert.True(t, within)
	assert.Equal(t, 0.0, distance)

	within, _ = IsWithinRadius(0, 0, 0.001, 0, 0)
	assert.True(t, within, "zero distance is always inside a positive radius")

	within, distance = IsWithinRadius(0, 0, 100, 0.002, 0)
	assert.False(t, within)
	assert.Greater(t, distance, 100.0)
}

func TestDaysInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysInclusive(start, start))
	assert.Equal(t, 31, DaysInclusive(start, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysInclusive(start, start.AddDate(0, 0, -1)))
}

func TestEachDate(t *testing.T) {
	var got []string
	err := EachDate(
		time.Date(2024, 2, 27, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		func(d time.Time) error {
			got = append(got, FormatDate(d))
			return nil
		},
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, got)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.February, time.UTC)
	assert.Equal(t, "2024-02-01", FormatDate(start))
	assert.Equal(t, "2024-02-29", FormatDate(end))
}
