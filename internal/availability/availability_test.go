package availability

import (
	"testing"
	"time"
)

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestResolveOpenRanges_BlackoutWinsOverEverything(t *testing.T) {
	sched := DaySchedule{
		Blackout: true,
		Override: &OverrideWindows{Available: true, Windows: []TimeRange{{Start: at(9, 0), End: at(17, 0)}}},
		Weekly:   &TimeRange{Start: at(9, 0), End: at(17, 0)},
	}
	if got := ResolveOpenRanges(sched); len(got) != 0 {
		t.Fatalf("expected closed day, got %d ranges", len(got))
	}
}

func TestResolveOpenRanges_ClosedOverrideIgnoresWeeklyRule(t *testing.T) {
	sched := DaySchedule{
		Override: &OverrideWindows{Available: false},
		Weekly:   &TimeRange{Start: at(9, 0), End: at(17, 0)},
	}
	if got := ResolveOpenRanges(sched); len(got) != 0 {
		t.Fatalf("expected closed day, got %d ranges", len(got))
	}
}

func TestResolveOpenRanges_OpenOverrideReplacesWeeklyHours(t *testing.T) {
	sched := DaySchedule{
		Override: &OverrideWindows{Available: true, Windows: []TimeRange{
			{Start: at(13, 0), End: at(16, 0)},
			{Start: at(10, 0), End: at(12, 0)},
		}},
		Weekly: &TimeRange{Start: at(9, 0), End: at(17, 0)},
	}
	got := ResolveOpenRanges(sched)
	if len(got) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(got))
	}
	if !got[0].Start.Equal(at(10, 0)) || !got[1].Start.Equal(at(13, 0)) {
		t.Fatalf("expected ranges sorted ascending, got %v", got)
	}
}

func TestResolveOpenRanges_NoRuleNoOverride(t *testing.T) {
	if got := ResolveOpenRanges(DaySchedule{}); len(got) != 0 {
		t.Fatalf("expected closed day, got %d ranges", len(got))
	}
}

func TestResolveOpenRanges_DropsInvalidWindows(t *testing.T) {
	sched := DaySchedule{
		Override: &OverrideWindows{Available: true, Windows: []TimeRange{
			{Start: at(14, 0), End: at(14, 0)}, // empty
			{Start: at(16, 0), End: at(15, 0)}, // inverted
			{Start: at(9, 0), End: at(12, 0)},
		}},
	}
	got := ResolveOpenRanges(sched)
	if len(got) != 1 || !got[0].Start.Equal(at(9, 0)) {
		t.Fatalf("expected only the valid range to survive, got %v", got)
	}
}

func TestGenerateSlots_FixedStepOverlappingCandidates(t *testing.T) {
	open := []TimeRange{{Start: at(9, 0), End: at(17, 0)}}
	slots := GenerateSlots(open, 60*time.Minute, StepInterval)
	if len(slots) != 15 {
		t.Fatalf("expected 15 candidates for 60m service in 09:00-17:00, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(9, 0)) || !slots[0].End.Equal(at(10, 0)) {
		t.Fatalf("unexpected first candidate %v", slots[0])
	}
	// Last candidate must end exactly at the range end.
	last := slots[len(slots)-1]
	if !last.Start.Equal(at(16, 0)) || !last.End.Equal(at(17, 0)) {
		t.Fatalf("unexpected last candidate %v", last)
	}
}

func TestGenerateSlots_ExactFitBoundary(t *testing.T) {
	open := []TimeRange{{Start: at(9, 0), End: at(17, 0)}}
	slots := GenerateSlots(open, 480*time.Minute, StepInterval)
	if len(slots) != 1 {
		t.Fatalf("expected exactly one candidate, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(9, 0)) || !slots[0].End.Equal(at(17, 0)) {
		t.Fatalf("unexpected candidate %v", slots[0])
	}
}

func TestGenerateSlots_DedupesStartsAcrossAbuttingRanges(t *testing.T) {
	open := []TimeRange{
		{Start: at(9, 0), End: at(12, 0)},
		{Start: at(11, 0), End: at(14, 0)},
	}
	slots := GenerateSlots(open, 30*time.Minute, StepInterval)
	seen := map[time.Time]bool{}
	for _, s := range slots {
		if seen[s.Start] {
			t.Fatalf("duplicate start time %s", s.Start.Format("15:04"))
		}
		seen[s.Start] = true
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Start.Before(slots[i].Start) {
			t.Fatalf("candidates not ascending at index %d", i)
		}
	}
}

func TestGenerateSlots_SkipsInvalidRange(t *testing.T) {
	open := []TimeRange{{Start: at(12, 0), End: at(12, 0)}}
	if slots := GenerateSlots(open, 30*time.Minute, StepInterval); len(slots) != 0 {
		t.Fatalf("expected no candidates, got %d", len(slots))
	}
}

func TestFilterConflicts_BufferWidensAppointments(t *testing.T) {
	busy := []TimeRange{{Start: at(10, 0), End: at(10, 30)}}
	candidates := []TimeRange{
		{Start: at(10, 30), End: at(11, 0)},
		{Start: at(10, 45), End: at(11, 15)},
	}
	slots := FilterConflicts(candidates, busy, 15*time.Minute)
	if slots[0].Available {
		t.Fatalf("10:30 start falls inside the widened 09:45-10:45 window, must be unavailable")
	}
	if !slots[1].Available {
		t.Fatalf("10:45 start is clear of the widened window, must be available")
	}
}

func TestFilterConflicts_KeepsEveryCandidate(t *testing.T) {
	busy := []TimeRange{{Start: at(9, 0), End: at(18, 0)}}
	candidates := []TimeRange{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(9, 30), End: at(10, 30)},
	}
	slots := FilterConflicts(candidates, busy, 0)
	if len(slots) != len(candidates) {
		t.Fatalf("expected all candidates returned, got %d of %d", len(slots), len(candidates))
	}
	for _, s := range slots {
		if s.Available {
			t.Fatalf("slot %s should conflict", s.Start.Format("15:04"))
		}
	}
}

func fullPipeline(sched DaySchedule, duration time.Duration, busy []TimeRange, buffer time.Duration) []Slot {
	return FilterConflicts(GenerateSlots(ResolveOpenRanges(sched), duration, StepInterval), busy, buffer)
}

func TestPipeline_MondayNoAppointments(t *testing.T) {
	sched := DaySchedule{Weekly: &TimeRange{Start: at(9, 0), End: at(17, 0)}}
	slots := fullPipeline(sched, 60*time.Minute, nil, 15*time.Minute)

	if len(slots) != 15 {
		t.Fatalf("expected 15 slots 09:00..16:00, got %d", len(slots))
	}
	for i, s := range slots {
		want := at(9, 0).Add(time.Duration(i) * StepInterval)
		if !s.Start.Equal(want) {
			t.Fatalf("slot %d: expected start %s, got %s", i, want.Format("15:04"), s.Start.Format("15:04"))
		}
		if !s.Available {
			t.Fatalf("slot %s should be available on an empty day", s.Start.Format("15:04"))
		}
	}
}

func TestPipeline_MiddayAppointmentBlocksBufferedWindow(t *testing.T) {
	sched := DaySchedule{Weekly: &TimeRange{Start: at(9, 0), End: at(17, 0)}}
	busy := []TimeRange{{Start: at(12, 0), End: at(13, 0)}}
	slots := fullPipeline(sched, 60*time.Minute, busy, 15*time.Minute)

	// Widened busy window is 11:45-13:15: a 60m candidate conflicts when its
	// start is after 10:45 and before 13:15.
	unavailable := map[string]bool{
		"11:00": true, "11:30": true, "12:00": true, "12:30": true, "13:00": true,
	}
	for _, s := range slots {
		key := s.Start.Format("15:04")
		if unavailable[key] == s.Available {
			t.Fatalf("slot %s: expected available=%v, got %v", key, !unavailable[key], s.Available)
		}
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	sched := DaySchedule{Weekly: &TimeRange{Start: at(9, 0), End: at(17, 0)}}
	busy := []TimeRange{{Start: at(10, 0), End: at(11, 0)}}

	first := fullPipeline(sched, 30*time.Minute, busy, 15*time.Minute)
	second := fullPipeline(sched, 30*time.Minute, busy, 15*time.Minute)

	if len(first) != len(second) {
		t.Fatalf("pipeline not idempotent: %d vs %d slots", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pipeline not idempotent at slot %d: %v vs %v", i, first[i], second[i])
		}
	}
}
