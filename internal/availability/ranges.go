package availability

import (
	"log"
	"sort"
	"time"
)

// TimeRange is a contiguous window within a single day.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) valid() bool {
	return r.Start.Before(r.End)
}

// OverrideWindows carries an admin override for one specific date. When
// Available is false the day is closed outright; when true, Windows replaces
// whatever the weekly rule would have opened.
type OverrideWindows struct {
	Available bool
	Windows   []TimeRange
}

// DaySchedule is the configuration snapshot for one calendar date, assembled
// by the caller from blackout dates, per-date overrides and the weekly rule.
type DaySchedule struct {
	Blackout bool
	Override *OverrideWindows
	Weekly   *TimeRange // nil when no active rule for the day of week
}

// ResolveOpenRanges returns the bookable windows for a day. Precedence,
// highest first: blackout closes the day unconditionally, then a per-date
// override (closed, or its own windows), then the weekly rule. Windows with
// start >= end are dropped and logged rather than surfaced as errors.
func ResolveOpenRanges(day DaySchedule) []TimeRange {
	if day.Blackout {
		return nil
	}

	var windows []TimeRange
	switch {
	case day.Override != nil:
		if !day.Override.Available {
			return nil
		}
		windows = day.Override.Windows
	case day.Weekly != nil:
		windows = []TimeRange{*day.Weekly}
	default:
		return nil
	}

	open := make([]TimeRange, 0, len(windows))
	for _, w := range windows {
		if !w.valid() {
			log.Printf("availability: dropping invalid open range %s-%s",
				w.Start.Format("15:04:05"), w.End.Format("15:04:05"))
			continue
		}
		open = append(open, w)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Start.Before(open[j].Start) })
	return open
}
