package domain

import "time"

// timestampLayout matches the ISO-8601 form browsers produce for Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
