package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH CAPTURE DTOs
// ========================================

type RecordPunchRequest struct {
	StaffID   string   `json:"-"`
	Type      string   `json:"type"`
	Timestamp *string  `json:"timestamp,omitempty"` // RFC3339, defaults to now
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if !validator.IsInSlice(r.Type, PunchTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: in, out, break_start, break_end",
		})
	}

	if r.Timestamp != nil && *r.Timestamp != "" {
		if _, valid := validator.IsValidDateTime(*r.Timestamp); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an RFC3339 datetime",
			})
		}
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: ErrIncompleteLocation.Error(),
		})
	}

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	ID               string   `json:"id"`
	StaffID          string   `json:"staff_id"`
	Type             string   `json:"type"`
	Timestamp        string   `json:"timestamp"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	IsWithinGeofence bool     `json:"is_within_geofence"`
	DistanceMeters   *float64 `json:"distance_meters,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

type ListPunchResponse struct {
	StaffID    string          `json:"staff_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	TotalCount int             `json:"total_count"`
	Punches    []PunchResponse `json:"punches"`
}

type EvaluateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *EvaluateLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeofenceResponse struct {
	VenueName        string  `json:"venue_name,omitempty"`
	IsWithinGeofence bool    `json:"is_within_geofence"`
	DistanceMeters   float64 `json:"distance_meters"`
	RadiusMeters     float64 `json:"radius_meters"`
}

// ========================================
// RECONSTRUCTION DTOs
// ========================================

// MaxRangeDays bounds a single reconstruction request.
const MaxRangeDays = 366

// AttendanceFilter selects a staff member's records between two local dates (inclusive).
type AttendanceFilter struct {
	StaffID   string  `json:"-"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TeamAttendanceFilter selects every staff member's records between two local dates (inclusive).
type TeamAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *TeamAttendanceFilter) Validate() error {
	errs := validateDateRange(f.StartDate, f.EndDate)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool

	if startDate != nil && *startDate != "" {
		if start, startOK = validator.IsValidDate(*startDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if endDate != nil && *endDate != "" {
		if end, endOK = validator.IsValidDate(*endDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: ErrInvalidDateRange.Error(),
			})
		} else if end.Sub(start) >= MaxRangeDays*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: ErrDateRangeTooLarge.Error(),
			})
		}
	}

	return errs
}

type DailyAttendanceResponse struct {
	Date             string  `json:"date"`
	ClockIn          *string `json:"clock_in"`
	ClockOut         *string `json:"clock_out"`
	BreakMinutes     int     `json:"break_minutes"`
	TotalMinutes     int     `json:"total_minutes"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	IsWithinGeofence bool    `json:"is_within_geofence"`
	InProgress       bool    `json:"in_progress"`
}

type ListDailyAttendanceResponse struct {
	StaffID   string                    `json:"staff_id"`
	StartDate string                    `json:"start_date"`
	EndDate   string                    `json:"end_date"`
	Days      []DailyAttendanceResponse `json:"days"`
}

type SummaryResponse struct {
	DaysRecorded         int     `json:"days_recorded"`
	DaysWorked           int     `json:"days_worked"`
	InProgressDays       int     `json:"in_progress_days"`
	OffSiteDays          int     `json:"off_site_days"`
	TotalMinutes         int     `json:"total_minutes"`
	TotalBreakMinutes    int     `json:"total_break_minutes"`
	TotalOvertimeMinutes int     `json:"total_overtime_minutes"`
	TotalWorkHours       float64 `json:"total_work_hours"`
}

// ========================================
// MONTHLY SUMMARY
// ========================================

// MonthlySummaryRequest selects one calendar month. A zero Month or Year is
// filled with the current month at the venue.
type MonthlySummaryRequest struct {
	StaffID string `json:"-"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
}

// Validate checks the request against now, the caller's clock.
func (r *MonthlySummaryRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := now.Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlySummaryResponse struct {
	StaffID     string                    `json:"staff_id"`
	PeriodMonth int                       `json:"period_month"`
	PeriodYear  int                       `json:"period_year"`
	PeriodStart string                    `json:"period_start"`
	PeriodEnd   string                    `json:"period_end"`
	GeneratedAt string                    `json:"generated_at"`
	Summary     SummaryResponse           `json:"summary"`
	Days        []DailyAttendanceResponse `json:"days"`
}

// ========================================
// TEAM ATTENDANCE
// ========================================

type StaffAttendanceResponse struct {
	StaffID string                    `json:"staff_id"`
	Summary SummaryResponse           `json:"summary"`
	Days    []DailyAttendanceResponse `json:"days"`
}

type TeamAttendanceResponse struct {
	StartDate string                    `json:"start_date"`
	EndDate   string                    `json:"end_date"`
	Staff     []StaffAttendanceResponse `json:"staff"`
}
