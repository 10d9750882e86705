package utils

import "time"

var clock = time.Now

// TimeNowUTC is the single source of "now" for services and jobs.
func TimeNowUTC() time.Time {
	return clock().UTC()
}

// SetClock replaces the clock and returns a function restoring the previous one.
func SetClock(fn func() time.Time) func() {
	prev := clock
	clock = fn
	return func() { clock = prev }
}

func DaysAgo(days int) time.Time {
	return TimeNowUTC().AddDate(0, 0, -days)
}
