package blog

import (
	"fmt"
	"time"
)

const (
	hoursPerDay  = 24
	daysPerWeek  = 7
	daysPerMonth = 30
)

// FormatRelativeDate renders a timestamp for human display: recent
// times as "n minutes/hours ago", then "Yesterday", "n days ago",
// "n weeks ago", and finally the plain date. The zero time renders as
// "Never".
func FormatRelativeDate(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	diff := time.Since(t)
	days := int(diff.Hours() / hoursPerDay)

	switch {
	case days == 0 && diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case days == 0:
		return pluralize(int(diff.Hours()), "hour")
	case days == 1:
		return "Yesterday"
	case days < daysPerWeek:
		return pluralize(days, "day")
	case days < daysPerMonth:
		return pluralize(days/daysPerWeek, "week")
	default:
		return t.Format("2006-01-02")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
