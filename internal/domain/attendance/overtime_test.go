package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOvertimeRule_Overtime(t *testing.T) {
	rule := DefaultOvertimeRule()
	cases := []struct {
		total int
		want  int
	}{
		{0, 0},
		{450, 0},
		{480, 0},
		{481, 1},
		{510, 30},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rule.Overtime(c.total), "Overtime(%d)", c.total)
	}
}

func TestOvertimeRule_ZeroThreshold(t *testing.T) {
	rule := OvertimeRule{ThresholdMinutes: 0}
	assert.Equal(t, 15, rule.Overtime(15))
	assert.Equal(t, 0, rule.Overtime(0))
}

func TestSummarize(t *testing.T) {
	in := at(0, 9, 0)
	out := at(0, 18, 0)
	records := []DailyAttendance{
		{Date: testDay, ClockIn: &in, ClockOut: &out, BreakMinutes: 30, TotalMinutes: 510, OvertimeMinutes: 30, IsWithinGeofence: true},
		{Date: testDay.AddDate(0, 0, -1), ClockIn: &in, BreakMinutes: 0},
		{Date: testDay.AddDate(0, 0, -2), BreakMinutes: 15},
	}

	s := Summarize(records)

	assert.Equal(t, Summary{
		DaysRecorded:         3,
		DaysWorked:           1,
		InProgressDays:       1,
		OffSiteDays:          1,
		TotalMinutes:         510,
		TotalBreakMinutes:    45,
		TotalOvertimeMinutes: 30,
	}, s)
}

func TestParsePunchType(t *testing.T) {
	for _, v := range PunchTypeValues {
		got, err := ParsePunchType(v)
		assert.NoError(t, err)
		assert.Equal(t, PunchType(v), got)
	}

	_, err := ParsePunchType("lunch")
	assert.ErrorIs(t, err, ErrInvalidPunchType)
}
