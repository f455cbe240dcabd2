package search

import (
	"fmt"
	"time"
)

// User-entered dates are civil dates in JST. The dataset's timestamps
// are UTC instants, so naive string concatenation would shift results
// by up to a day. JST is a fixed +09:00 offset with no daylight
// saving, which keeps the conversion a pure calendar computation with
// no timezone database involved.
var jst = time.FixedZone("JST", 9*60*60)

const civilDateLayout = "2006-01-02"

func parseCivilDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(civilDateLayout, date, jst)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid civil date %q: %w", date, err)
	}
	return t, nil
}

// StartOfDayUTC returns the UTC instant of 00:00:00 JST on the given
// civil date, i.e. 15:00:00 of the previous UTC calendar day.
func StartOfDayUTC(date string) (time.Time, error) {
	t, err := parseCivilDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// EndOfDayUTC returns the UTC instant of 23:59:59 JST on the given
// civil date, i.e. 14:59:59 of the same UTC calendar day.
func EndOfDayUTC(date string) (time.Time, error) {
	t, err := parseCivilDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(23*time.Hour + 59*time.Minute + 59*time.Second).UTC(), nil
}
