package forecast

import (
	"math"
	"time"
)

// civilDate drops the clock part, keeping the calendar date of t in its own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayAge is the number of whole calendar days from d to now (0 for today,
// negative for future dates).
func dayAge(now, d time.Time) int {
	return int(civilDate(now).Sub(civilDate(d)).Hours() / 24)
}

// addDays moves t forward by a fractional number of days without overflowing
// time.Duration for very large values.
func addDays(t time.Time, days float64) time.Time {
	whole := math.Floor(days)
	frac := days - whole
	return t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(24*time.Hour)))
}

func validNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
