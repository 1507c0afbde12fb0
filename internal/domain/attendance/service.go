package attendance

import (
	"context"
	"io"
)

// AttendanceService defines business logic around punch capture and reconstruction
type AttendanceService interface {
	// RecordPunch validates, geofence-annotates and stores a punch event
	RecordPunch(ctx context.Context, req RecordPunchRequest) (PunchResponse, error)

	// EvaluateLocation reports whether a point lies within the venue geofence
	EvaluateLocation(ctx context.Context, req EvaluateLocationRequest) (GeofenceResponse, error)

	// ListPunches lists raw punch events of a staff member
	ListPunches(ctx context.Context, filter AttendanceFilter) (ListPunchResponse, error)

	// DeletePunch removes a punch event (administrative correction) and returns what was removed
	DeletePunch(ctx context.Context, id string) (PunchResponse, error)

	// GetDailyAttendance reconstructs daily records of a staff member
	GetDailyAttendance(ctx context.Context, filter AttendanceFilter) (ListDailyAttendanceResponse, error)

	// GetMonthlySummary aggregates one month of daily records of a staff member
	GetMonthlySummary(ctx context.Context, req MonthlySummaryRequest) (MonthlySummaryResponse, error)

	// GetTeamAttendance reconstructs daily records for every staff member with punches in range
	GetTeamAttendance(ctx context.Context, filter TeamAttendanceFilter) (TeamAttendanceResponse, error)

	// ExportTeamAttendance writes the team attendance of a range as an XLSX workbook
	ExportTeamAttendance(ctx context.Context, filter TeamAttendanceFilter, w io.Writer) error
}
