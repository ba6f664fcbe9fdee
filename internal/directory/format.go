package directory

import (
	"fmt"
	"time"
)

// FormatCreated renders a creation time relative to now: hours within a day, days within a
// week, then the calendar date.
func FormatCreated(created, now time.Time) string {
	if created.IsZero() {
		return "-"
	}
	diff := now.Sub(created)
	if diff < 0 {
		diff = 0
	}
	hours := int(diff / time.Hour)
	switch {
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case hours < 24*7:
		return fmt.Sprintf("%dd ago", hours/24)
	default:
		return created.Local().Format("02/01/2006")
	}
}

// FormatDate renders a calendar date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006")
}
