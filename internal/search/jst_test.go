package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDayUTC(t *testing.T) {
	// 00:00 JST lands at 15:00 UTC on the previous calendar day.
	got, err := StartOfDayUTC("2026-01-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 13, 15, 0, 0, 0, time.UTC), got)
}

func TestEndOfDayUTC(t *testing.T) {
	// 23:59:59 JST lands at 14:59:59 UTC on the same calendar day.
	got, err := EndOfDayUTC("2026-01-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 14, 14, 59, 59, 0, time.UTC), got)
}

func TestDayBoundariesOrdered(t *testing.T) {
	dates := []string{
		"2024-02-29", // leap day
		"2025-12-31",
		"2026-01-01",
		"2026-06-15",
	}
	for _, d := range dates {
		start, err := StartOfDayUTC(d)
		require.NoError(t, err, d)
		end, err := EndOfDayUTC(d)
		require.NoError(t, err, d)

		assert.True(t, start.Before(end), "start must precede end for %s", d)
		assert.Equal(t, 23*time.Hour+59*time.Minute+59*time.Second, end.Sub(start), d)
	}
}

func TestYearBoundaryCrossing(t *testing.T) {
	// New Year's Day in JST starts during the previous UTC year.
	start, err := StartOfDayUTC("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 15, 0, 0, 0, time.UTC), start)
}

func TestInvalidCivilDates(t *testing.T) {
	for _, d := range []string{"", "2026-13-01", "2026-01-32", "20260101", "not-a-date"} {
		_, err := StartOfDayUTC(d)
		assert.Error(t, err, "StartOfDayUTC(%q)", d)
		_, err = EndOfDayUTC(d)
		assert.Error(t, err, "EndOfDayUTC(%q)", d)
	}
}
