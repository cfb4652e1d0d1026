package availability

import (
	"sort"
	"time"
)

// StepInterval is the fixed spacing between candidate start times. Slots of a
// longer duration overlap each other on purpose: every half hour stays
// offerable as a start time and the conflict filter removes what cannot fit.
const StepInterval = 30 * time.Minute

// Slot is a candidate booking window with the result of conflict filtering.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// GenerateSlots expands open ranges into candidates of the requested
// duration, stepping by step within each range. A slot ending exactly at a
// range's end is allowed. Candidates from all ranges come back merged in
// ascending start order with duplicate start times removed.
func GenerateSlots(open []TimeRange, duration, step time.Duration) []TimeRange {
	if duration <= 0 || step <= 0 {
		return nil
	}

	var candidates []TimeRange
	for _, r := range open {
		if !r.valid() {
			continue
		}
		for cur := r.Start; !cur.Add(duration).After(r.End); cur = cur.Add(step) {
			candidates = append(candidates, TimeRange{Start: cur, End: cur.Add(duration)})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	// Abutting or overlapping ranges can repeat a start time.
	deduped := candidates[:0]
	for i, c := range candidates {
		if i > 0 && c.Start.Equal(candidates[i-1].Start) {
			continue
		}
		deduped = append(deduped, c)
	}
	return deduped
}

// FilterConflicts marks each candidate available or not against the existing
// appointments of the day. Every appointment is widened by buffer on both
// sides before the standard interval overlap test, so back-to-back bookings
// keep the configured gap. Candidates are returned in input order, none are
// dropped.
func FilterConflicts(candidates []TimeRange, busy []TimeRange, buffer time.Duration) []Slot {
	slots := make([]Slot, 0, len(candidates))
	for _, c := range candidates {
		slots = append(slots, Slot{
			Start:     c.Start,
			End:       c.End,
			Available: !overlapsAny(c, busy, buffer),
		})
	}
	return slots
}

func overlapsAny(c TimeRange, busy []TimeRange, buffer time.Duration) bool {
	for _, b := range busy {
		if c.Start.Before(b.End.Add(buffer)) && b.Start.Add(-buffer).Before(c.End) {
			return true
		}
	}
	return false
}
