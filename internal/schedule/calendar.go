package schedule

import "time"

const DateLayout = "2006-01-02"

// StartOfWeek returns the Monday on or before t. Any time-of-day component
// is truncated before the week is computed.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	// time.Weekday counts Sunday as 0; the agenda week starts on Monday.
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	return day.AddDate(0, 0, -offset)
}

// DaysOfWeek returns count consecutive calendar dates starting at monday.
func DaysOfWeek(monday time.Time, count int) []time.Time {
	days := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}
	return days
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
