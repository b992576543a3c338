package utils

import (
	"time"

	"github.com/dustin/go-humanize"
)

const timestampLayout = "2006-01-02 15:04"

// FormatTimestamp returns the provided time formatted using the local time zone
// and a layout that includes date and minutes (locale-sensitive via system TZ).
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// FormatRelativeTime describes value relative to now, e.g. "3 hours ago".
func FormatRelativeTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return humanize.Time(value)
}
