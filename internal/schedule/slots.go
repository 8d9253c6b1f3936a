package schedule

import (
	"errors"
	"fmt"
)

var ErrInvalidSlotConfig = errors.New("invalid slot configuration")

// TimeOfDay is a clock time with minute granularity, stored as minutes
// since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("parse time of day %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time of day %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// GenerateSlots produces the candidate appointment grid between start and
// end, spaced by durationMinutes. The boundary slot at exactly end is
// included. The generator holds no state between calls.
func GenerateSlots(start, end TimeOfDay, durationMinutes int) ([]TimeOfDay, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration %d minutes", ErrInvalidSlotConfig, durationMinutes)
	}
	if start > end {
		return nil, fmt.Errorf("%w: start %s after end %s", ErrInvalidSlotConfig, start, end)
	}

	var slots []TimeOfDay
	for cur := start; cur <= end; cur += TimeOfDay(durationMinutes) {
		slots = append(slots, cur)
	}
	return slots, nil
}
