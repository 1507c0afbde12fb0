package attendance

// Summary aggregates a list of daily records, e.g. one month for payroll.
type Summary struct {
	DaysRecorded         int
	DaysWorked           int
	InProgressDays       int
	OffSiteDays          int
	TotalMinutes         int
	TotalBreakMinutes    int
	TotalOvertimeMinutes int
}

// Summarize sums the derived minutes across records. A day counts as worked
// when it produced non-zero net minutes; an off-site day is one whose
// clock-in fell outside the geofence.
func Summarize(records []DailyAttendance) Summary {
	var s Summary
	for _, rec := range records {
		s.DaysRecorded++
		s.TotalMinutes += rec.TotalMinutes
		s.TotalBreakMinutes += rec.BreakMinutes
		s.TotalOvertimeMinutes += rec.OvertimeMinutes

		if rec.TotalMinutes > 0 {
			s.DaysWorked++
		}
		if rec.InProgress() {
			s.InProgressDays++
		}
		if rec.ClockIn != nil && !rec.IsWithinGeofence {
			s.OffSiteDays++
		}
	}
	return s
}
