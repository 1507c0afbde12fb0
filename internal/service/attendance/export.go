package attendance

import (
	"io"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportHeader = []any{
	"Staff ID",
	"Date",
	"Clock In",
	"Clock Out",
	"Break Minutes",
	"Total Minutes",
	"Overtime Minutes",
	"Within Geofence",
	"In Progress",
}

// writeTeamWorkbook lays out one row per staff member and day, staff in
// report order and days newest first.
func writeTeamWorkbook(team attendance.TeamAttendanceResponse, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}

	row := 2
	for _, staff := range team.Staff {
		for _, day := range staff.Days {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}

			values := []any{
				staff.StaffID,
				day.Date,
				stringOrEmpty(day.ClockIn),
				stringOrEmpty(day.ClockOut),
				day.BreakMinutes,
				day.TotalMinutes,
				day.OvertimeMinutes,
				yesNo(day.IsWithinGeofence),
				yesNo(day.InProgress),
			}
			if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "D", 26); err != nil {
		return err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.Write(w)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
