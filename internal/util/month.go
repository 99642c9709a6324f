package util

import "time"

// EndOfMonth returns the last calendar day of the month containing d.
// It jumps to day 28, adds four days to land in the next month regardless of
// month length, truncates to the first, and steps back one day. Correct for
// all month lengths including leap Februaries.
func EndOfMonth(d time.Time) time.Time {
	day28 := time.Date(d.Year(), d.Month(), 28, 0, 0, 0, 0, d.Location())
	nextMonth := day28.AddDate(0, 0, 4)
	firstOfNext := time.Date(nextMonth.Year(), nextMonth.Month(), 1, 0, 0, 0, 0, d.Location())
	return firstOfNext.AddDate(0, 0, -1)
}

// EndOfWeek returns the last day of a week starting at start.
func EndOfWeek(start time.Time) time.Time {
	return start.AddDate(0, 0, 6)
}
