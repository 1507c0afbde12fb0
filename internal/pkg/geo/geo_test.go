package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	p := Coordinate{Latitude: 16.0544, Longitude: 108.2022}
	assert.Equal(t, 0.0, DistanceMeters(p, p))
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	center := Coordinate{Latitude: 16.0544, Longitude: 108.2022}
	point := Coordinate{Latitude: 16.0544, Longitude: 108.2030}

	d := DistanceMeters(center, point)
	assert.InDelta(t, 85.5, d, 3.0)
}

func TestDistanceMeters_OneDegreeLatitude(t *testing.T) {
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 1, Longitude: 0}

	want := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, want, DistanceMeters(a, b), 1e-6)
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	cases := []struct {
		a, b Coordinate
	}{
		{Coordinate{16.0544, 108.2022}, Coordinate{16.1, 108.25}},
		{Coordinate{-33.8688, 151.2093}, Coordinate{51.5074, -0.1278}},
		{Coordinate{89.9, 10}, Coordinate{-89.9, -170}},
		{Coordinate{0, 179.9}, Coordinate{0, -179.9}},
	}
	for _, c := range cases {
		ab := DistanceMeters(c.a, c.b)
		ba := DistanceMeters(c.b, c.a)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.InEpsilon(t, ab, ba, 1e-6, "distance(%v,%v)", c.a, c.b)
	}
}

func TestDistanceMeters_AntipodalIsFinite(t *testing.T) {
	halfCircumference := EarthRadiusMeters * math.Pi

	// Latitude 150 at longitude 180 wraps over the pole back onto (30, 0).
	wrapped := DistanceMeters(
		Coordinate{Latitude: 30, Longitude: 0},
		Coordinate{Latitude: 150, Longitude: 180},
	)
	assert.False(t, math.IsNaN(wrapped))
	assert.InDelta(t, 0, wrapped, 1.0)

	for lat := -90.0; lat <= 90; lat += 0.5 {
		for lon := -180.0; lon <= 0; lon += 0.5 {
			a := Coordinate{Latitude: lat, Longitude: lon}
			b := Coordinate{Latitude: -lat, Longitude: lon + 180}

			d := DistanceMeters(a, b)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				t.Fatalf("DistanceMeters(%v, %v) = %v", a, b, d)
			}
			if math.Abs(d-halfCircumference) > 1.0 {
				t.Fatalf("DistanceMeters(%v, %v) = %v, want ~%v", a, b, d, halfCircumference)
			}
		}
	}
}
