// Package geo holds the distance and locality helpers shared by every
// proximity search, plus the geocoding client.
package geo

import (
	"math"

	"recicleaqui/models"
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Between returns the distance between two coordinate pairs.
func Between(a, b models.Coordinates) float64 {
	return Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// DistanceKm returns the distance between two addresses. ok is false when
// either address is missing or has no coordinates.
func DistanceKm(a, b *models.Address) (km float64, ok bool) {
	ca, cb := a.Coordinates(), b.Coordinates()
	if ca == nil || cb == nil {
		return 0, false
	}
	return Between(*ca, *cb), true
}

// Within reports whether d is set and at most radiusKm. A nil distance
// counts as in range; callers use it for the inclusive fallback.
func Within(d *float64, radiusKm float64) bool {
	return d == nil || *d <= radiusKm
}

// LessDistance orders nil distances after every known distance.
func LessDistance(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
