package attendance

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// at returns testDay shifted by dayOffset days at hh:mm UTC.
func at(dayOffset, hh, mm int) time.Time {
	return testDay.AddDate(0, 0, dayOffset).Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func punch(typ PunchType, ts time.Time) PunchEvent {
	return PunchEvent{
		ID:        fmt.Sprintf("%s-%d", typ, ts.Unix()),
		StaffID:   "staff-1",
		Type:      typ,
		Timestamp: ts,
	}
}

func newTestReconstructor() *Reconstructor {
	return NewReconstructor(DefaultOvertimeRule(), time.UTC)
}

func TestReconstruct_RegularDayWithBreak(t *testing.T) {
	in := punch(PunchIn, at(0, 9, 0))
	in.IsWithinGeofence = true
	events := []PunchEvent{
		in,
		punch(PunchBreakStart, at(0, 12, 0)),
		punch(PunchBreakEnd, at(0, 12, 30)),
		punch(PunchOut, at(0, 17, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	day := got[0]
	assert.Equal(t, testDay, day.Date)
	require.NotNil(t, day.ClockIn)
	require.NotNil(t, day.ClockOut)
	assert.Equal(t, at(0, 9, 0), *day.ClockIn)
	assert.Equal(t, at(0, 17, 0), *day.ClockOut)
	assert.Equal(t, 30, day.BreakMinutes)
	assert.Equal(t, 450, day.TotalMinutes)
	assert.Equal(t, 0, day.OvertimeMinutes)
	assert.True(t, day.IsWithinGeofence)
}

func TestReconstruct_Overtime(t *testing.T) {
	events := []PunchEvent{
		punch(PunchIn, at(0, 9, 0)),
		punch(PunchBreakStart, at(0, 12, 0)),
		punch(PunchBreakEnd, at(0, 12, 30)),
		punch(PunchOut, at(0, 18, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 510, got[0].TotalMinutes)
	assert.Equal(t, 30, got[0].OvertimeMinutes)
}

func TestReconstruct_MissingClockOut(t *testing.T) {
	got := newTestReconstructor().Reconstruct([]PunchEvent{punch(PunchIn, at(0, 9, 0))})

	require.Len(t, got, 1)
	assert.NotNil(t, got[0].ClockIn)
	assert.Nil(t, got[0].ClockOut)
	assert.Equal(t, 0, got[0].TotalMinutes)
	assert.Equal(t, 0, got[0].OvertimeMinutes)
	assert.True(t, got[0].InProgress())
}

func TestReconstruct_TwoBreakPairs(t *testing.T) {
	events := []PunchEvent{
		punch(PunchIn, at(0, 9, 0)),
		punch(PunchBreakStart, at(0, 12, 0)),
		punch(PunchBreakEnd, at(0, 12, 15)),
		punch(PunchBreakStart, at(0, 15, 0)),
		punch(PunchBreakEnd, at(0, 15, 10)),
		punch(PunchOut, at(0, 17, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 25, got[0].BreakMinutes)
	assert.Equal(t, 480-25, got[0].TotalMinutes)
}

func TestReconstruct_UnbalancedBreaksPairPositionally(t *testing.T) {
	events := []PunchEvent{
		punch(PunchBreakStart, at(0, 12, 0)),
		punch(PunchBreakStart, at(0, 12, 5)),
		punch(PunchBreakEnd, at(0, 12, 30)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].BreakMinutes)
}

func TestReconstruct_ExcessBreakEndsIgnored(t *testing.T) {
	events := []PunchEvent{
		punch(PunchBreakEnd, at(0, 11, 0)),
		punch(PunchBreakEnd, at(0, 13, 0)),
		punch(PunchBreakStart, at(0, 12, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	// first start (12:00) pairs with first end (11:00): negative, clamped to zero
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].BreakMinutes)
}

func TestReconstruct_NoClockInDay(t *testing.T) {
	in := punch(PunchBreakStart, at(0, 12, 0))
	in.IsWithinGeofence = true

	got := newTestReconstructor().Reconstruct([]PunchEvent{in, punch(PunchOut, at(0, 17, 0))})

	require.Len(t, got, 1)
	assert.Nil(t, got[0].ClockIn)
	assert.NotNil(t, got[0].ClockOut)
	assert.Equal(t, 0, got[0].TotalMinutes)
	assert.Equal(t, 0, got[0].OvertimeMinutes)
	assert.False(t, got[0].IsWithinGeofence)
}

func TestReconstruct_MultipleSessionsUseFirstInLastOut(t *testing.T) {
	firstIn := punch(PunchIn, at(0, 8, 0))
	firstIn.IsWithinGeofence = false
	secondIn := punch(PunchIn, at(0, 13, 0))
	secondIn.IsWithinGeofence = true

	events := []PunchEvent{
		firstIn,
		punch(PunchOut, at(0, 12, 0)),
		secondIn,
		punch(PunchOut, at(0, 16, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, at(0, 8, 0), *got[0].ClockIn)
	assert.Equal(t, at(0, 16, 0), *got[0].ClockOut)
	assert.Equal(t, 480, got[0].TotalMinutes)
	assert.False(t, got[0].IsWithinGeofence, "flag comes from the first clock-in")
}

func TestReconstruct_CrossMidnightSplitsIntoTwoDays(t *testing.T) {
	events := []PunchEvent{
		punch(PunchIn, at(0, 22, 0)),
		punch(PunchOut, at(1, 6, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 2)
	// newest first
	assert.Equal(t, testDay.AddDate(0, 0, 1), got[0].Date)
	assert.Nil(t, got[0].ClockIn)
	assert.NotNil(t, got[0].ClockOut)
	assert.Equal(t, 0, got[0].TotalMinutes)

	assert.Equal(t, testDay, got[1].Date)
	assert.NotNil(t, got[1].ClockIn)
	assert.Nil(t, got[1].ClockOut)
	assert.Equal(t, 0, got[1].TotalMinutes)
}

func TestReconstruct_ClockOutBeforeClockIn(t *testing.T) {
	events := []PunchEvent{
		punch(PunchOut, at(0, 8, 0)),
		punch(PunchIn, at(0, 9, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].TotalMinutes)
}

func TestReconstruct_BreakLongerThanShiftFloorsAtZero(t *testing.T) {
	events := []PunchEvent{
		punch(PunchBreakStart, at(0, 7, 0)),
		punch(PunchIn, at(0, 9, 0)),
		punch(PunchOut, at(0, 10, 0)),
		punch(PunchBreakEnd, at(0, 11, 0)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 240, got[0].BreakMinutes)
	assert.Equal(t, 0, got[0].TotalMinutes)
}

func TestReconstruct_PartialMinutesAreFloored(t *testing.T) {
	events := []PunchEvent{
		punch(PunchIn, at(0, 9, 0)),
		punch(PunchBreakStart, at(0, 12, 0)),
		punch(PunchBreakEnd, at(0, 12, 0).Add(10*time.Minute+59*time.Second)),
		punch(PunchOut, at(0, 17, 0).Add(59*time.Second)),
	}

	got := newTestReconstructor().Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].BreakMinutes)
	assert.Equal(t, 470, got[0].TotalMinutes)
}

func TestReconstruct_EmptyInput(t *testing.T) {
	got := newTestReconstructor().Reconstruct(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReconstruct_BucketsByVenueTimezone(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	// 23:30 UTC on the 9th is 06:30 local on the 10th
	events := []PunchEvent{
		punch(PunchIn, at(-1, 23, 30)),
		punch(PunchOut, at(0, 8, 30)),
	}

	got := NewReconstructor(DefaultOvertimeRule(), loc).Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, loc), got[0].Date)
	assert.Equal(t, 540, got[0].TotalMinutes)
	assert.Equal(t, 60, got[0].OvertimeMinutes)
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	events := []PunchEvent{
		punch(PunchOut, at(0, 17, 0)),
		punch(PunchIn, at(0, 9, 0)),
	}
	first := events[0]

	newTestReconstructor().Reconstruct(events)

	assert.Equal(t, first, events[0])
}

func TestReconstruct_CustomThreshold(t *testing.T) {
	events := []PunchEvent{
		punch(PunchIn, at(0, 9, 0)),
		punch(PunchOut, at(0, 17, 0)),
	}

	got := NewReconstructor(OvertimeRule{ThresholdMinutes: 420}, time.UTC).Reconstruct(events)

	require.Len(t, got, 1)
	assert.Equal(t, 60, got[0].OvertimeMinutes)
}

func randomWeek(r *rand.Rand) []PunchEvent {
	types := []PunchType{PunchIn, PunchOut, PunchBreakStart, PunchBreakEnd}
	n := r.Intn(40)
	events := make([]PunchEvent, 0, n)
	for i := 0; i < n; i++ {
		ts := testDay.Add(time.Duration(r.Intn(7*24*60)) * time.Minute)
		ev := punch(types[r.Intn(len(types))], ts)
		ev.ID = fmt.Sprintf("ev-%03d", i)
		ev.IsWithinGeofence = r.Intn(2) == 0
		events = append(events, ev)
	}
	return events
}

func TestReconstruct_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	rc := newTestReconstructor()

	for i := 0; i < 200; i++ {
		events := randomWeek(r)
		want := rc.Reconstruct(events)

		shuffled := append([]PunchEvent(nil), events...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, want, rc.Reconstruct(shuffled))
		assert.Equal(t, want, rc.Reconstruct(events), "repeat call")
	}
}

func TestReconstruct_DerivedFieldBounds(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	rule := DefaultOvertimeRule()
	rc := NewReconstructor(rule, time.UTC)

	for i := 0; i < 200; i++ {
		events := randomWeek(r)
		got := rc.Reconstruct(events)

		days := map[time.Time]bool{}
		for _, ev := range events {
			days[rc.dayOf(ev.Timestamp)] = true
		}
		assert.Len(t, got, len(days))

		for j, day := range got {
			assert.GreaterOrEqual(t, day.BreakMinutes, 0)
			assert.GreaterOrEqual(t, day.TotalMinutes, 0)
			assert.GreaterOrEqual(t, day.OvertimeMinutes, 0)
			assert.Equal(t, day.OvertimeMinutes > 0, day.TotalMinutes > rule.ThresholdMinutes)
			if day.ClockIn == nil || day.ClockOut == nil {
				assert.Zero(t, day.TotalMinutes)
			}
			if day.ClockIn == nil {
				assert.False(t, day.IsWithinGeofence)
			}
			if j > 0 {
				assert.True(t, got[j-1].Date.After(day.Date), "records sorted newest first")
			}
		}
	}
}
