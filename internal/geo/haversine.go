// Package geo implements great-circle distance on a spherical Earth.
package geo

import (
	"math"

	"github.com/UnknownOlympus/locus/internal/models"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Distance.
	EarthRadiusKm = 6371.0
	// MaxDistanceKm is half the circumference of the sphere, the upper bound of Distance.
	MaxDistanceKm = math.Pi * EarthRadiusKm

	degToRad = math.Pi / 180.0
)

// Distance returns the great-circle distance in kilometres between two points
// using the Haversine formula.
//
// The intermediate term is clamped into [0, 1]: rounding can push it slightly
// outside that range for antipodal points, which would make the square roots NaN.
// Longitude is not normalised at the poles, so the result there is finite but
// depends on the longitudes given.
func Distance(from, to models.Coordinates) float64 {
	dLat := (to.Latitude - from.Latitude) * degToRad
	dLon := (to.Longitude - from.Longitude) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(from.Latitude*degToRad)*math.Cos(to.Latitude*degToRad)*sinLon*sinLon
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
