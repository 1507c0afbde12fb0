package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

type PunchType string

const (
	PunchIn         PunchType = "in"
	PunchOut        PunchType = "out"
	PunchBreakStart PunchType = "break_start"
	PunchBreakEnd   PunchType = "break_end"
)

var PunchTypeValues = []string{
	string(PunchIn),
	string(PunchOut),
	string(PunchBreakStart),
	string(PunchBreakEnd),
}

// Valid reports whether t is one of the four known punch types.
func (t PunchType) Valid() bool {
	switch t {
	case PunchIn, PunchOut, PunchBreakStart, PunchBreakEnd:
		return true
	}
	return false
}

// ParsePunchType maps a stored or submitted value onto the closed punch type set.
func ParsePunchType(s string) (PunchType, error) {
	t := PunchType(s)
	if !t.Valid() {
		return "", ErrInvalidPunchType
	}
	return t, nil
}

// PunchEvent is one raw clock action. It is immutable once captured;
// geofence fields are annotated at capture time and never recomputed.
type PunchEvent struct {
	ID               string
	StaffID          string
	Type             PunchType
	Timestamp        time.Time
	Coordinates      *geo.Coordinate
	IsWithinGeofence bool
	DistanceMeters   *float64
	CreatedAt        time.Time
}

// DailyAttendance summarizes one staff member's punches on one calendar day.
type DailyAttendance struct {
	Date             time.Time
	ClockIn          *time.Time
	ClockOut         *time.Time
	BreakMinutes     int
	TotalMinutes     int
	OvertimeMinutes  int
	IsWithinGeofence bool
}

// InProgress reports a day that was clocked into but never clocked out of.
func (d DailyAttendance) InProgress() bool {
	return d.ClockIn != nil && d.ClockOut == nil
}

// VenueGeofence is the circular on-site boundary of a venue.
type VenueGeofence struct {
	Center       geo.Coordinate
	RadiusMeters float64
}

// DefaultVenueRadiusMeters is used when venue settings do not specify a radius.
const DefaultVenueRadiusMeters = 100
