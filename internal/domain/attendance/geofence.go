package attendance

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"

// GeofenceResult is the compliance classification of a single GPS fix.
type GeofenceResult struct {
	IsWithinGeofence bool
	DistanceMeters   *float64
}

// Evaluate classifies point against fence. It has no failure mode.
func Evaluate(point geo.Coordinate, fence VenueGeofence) GeofenceResult {
	distance := geo.DistanceMeters(point, fence.Center)
	return GeofenceResult{
		IsWithinGeofence: distance <= fence.RadiusMeters,
		DistanceMeters:   &distance,
	}
}

// Annotate is the capture-time wrapper around Evaluate. A punch without a
// GPS fix is never compliant and carries no distance.
func Annotate(point *geo.Coordinate, fence VenueGeofence) GeofenceResult {
	if point == nil {
		return GeofenceResult{}
	}
	return Evaluate(*point, fence)
}
