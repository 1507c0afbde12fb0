package attendance

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// Reconstructor turns one staff member's raw punches into daily attendance.
// It holds configuration only, so a single value may be shared across goroutines.
type Reconstructor struct {
	Rule OvertimeRule

	// Location is the venue calendar used for day bucketing. When nil, each
	// timestamp is bucketed by its own location.
	Location *time.Location
}

func NewReconstructor(rule OvertimeRule, loc *time.Location) *Reconstructor {
	return &Reconstructor{Rule: rule, Location: loc}
}

// punchTypeRank orders events that share a timestamp so the result does not
// depend on input order.
var punchTypeRank = map[PunchType]int{
	PunchIn:         0,
	PunchBreakStart: 1,
	PunchBreakEnd:   2,
	PunchOut:        3,
}

// Reconstruct groups events by calendar day and emits one record per day that
// has at least one event, most recent day first. Events must all belong to the
// same staff member. Malformed sequences degrade to zero/nil values.
func (r *Reconstructor) Reconstruct(events []PunchEvent) []DailyAttendance {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b PunchEvent) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		if c := cmp.Compare(punchTypeRank[a.Type], punchTypeRank[b.Type]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	var days []time.Time
	buckets := make(map[time.Time][]PunchEvent)
	for _, ev := range sorted {
		day := r.dayOf(ev.Timestamp)
		if _, ok := buckets[day]; !ok {
			days = append(days, day)
		}
		buckets[day] = append(buckets[day], ev)
	}

	result := make([]DailyAttendance, 0, len(days))
	for _, day := range days {
		result = append(result, r.summarizeDay(day, buckets[day]))
	}

	slices.SortFunc(result, func(a, b DailyAttendance) int {
		return b.Date.Compare(a.Date)
	})

	return result
}

func (r *Reconstructor) dayOf(ts time.Time) time.Time {
	if r.Location != nil {
		ts = ts.In(r.Location)
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

// summarizeDay expects events of a single day in ascending order.
func (r *Reconstructor) summarizeDay(day time.Time, events []PunchEvent) DailyAttendance {
	record := DailyAttendance{Date: day}

	var clockInEvent *PunchEvent
	for i := range events {
		if events[i].Type == PunchIn {
			clockInEvent = &events[i]
			break
		}
	}

	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == PunchOut {
			out := events[i].Timestamp
			record.ClockOut = &out
			break
		}
	}

	if clockInEvent != nil {
		in := clockInEvent.Timestamp
		record.ClockIn = &in
		record.IsWithinGeofence = clockInEvent.IsWithinGeofence
	}

	record.BreakMinutes = pairedBreakMinutes(events)

	if record.ClockIn != nil && record.ClockOut != nil {
		worked := floorMinutes(record.ClockOut.Sub(*record.ClockIn))
		record.TotalMinutes = max(0, worked-record.BreakMinutes)
	}

	record.OvertimeMinutes = r.Rule.Overtime(record.TotalMinutes)

	return record
}

// pairedBreakMinutes pairs the i-th break_start with the i-th break_end.
// Unmatched starts or ends contribute nothing.
func pairedBreakMinutes(events []PunchEvent) int {
	var starts, ends []time.Time
	for _, ev := range events {
		switch ev.Type {
		case PunchBreakStart:
			starts = append(starts, ev.Timestamp)
		case PunchBreakEnd:
			ends = append(ends, ev.Timestamp)
		}
	}

	total := 0
	for i := range min(len(starts), len(ends)) {
		total += max(0, floorMinutes(ends[i].Sub(starts[i])))
	}
	return total
}

func floorMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes()))
}
