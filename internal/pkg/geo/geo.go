package geo

import "math"

// EarthRadiusMeters is the mean earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

// Coordinate is a WGS84 point in degrees. Values outside the valid
// latitude/longitude ranges are accepted as-is.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMeters returns the great-circle distance between a and b in meters.
func DistanceMeters(a, b Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push h just past 1 for near-antipodal points.
	h = min(1, max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
