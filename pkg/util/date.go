package util

import "time"

// HourBucket formats a time as a UTC date-hour key, used to collapse
// repeated events within the same wall-clock hour.
func HourBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02-15")
}
