package availability

import (
	"fmt"
	"time"
)

// ParseClock anchors an HH:mm:ss (or HH:mm) time-of-day string onto the given
// calendar date. Stored schedule and appointment times are clock strings, all
// slot math happens on concrete timestamps.
func ParseClock(date time.Time, clock string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err = time.Parse(layout, clock)
		if err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, date.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
}

// FormatClock renders a timestamp back to the HH:mm:ss wire format.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}
