package utils

import "time"

// Time periods accepted by news endpoints.
const (
	Period1Day   = "1d"
	Period7Days  = "7d"
	Period30Days = "30d"
)

// PeriodStart maps a time-period string to the start of its window relative
// to now. Unknown values fall back to 7 days, matching the API default.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case Period1Day:
		return now.AddDate(0, 0, -1)
	case Period30Days:
		return now.AddDate(0, 0, -30)
	case Period7Days:
		return now.AddDate(0, 0, -7)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// Truncate a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
