package feed

import (
	"math"

	"github.com/joshua-takyi/citypulse/internal/models"
)

// Mean earth radius in km, per IUGG. Haversine over a sphere of this radius
// stays well inside 0.5% of the ellipsoidal distance for radii up to 100 km,
// which is all the "nearby events" feature needs.
const earthRadiusKm = 6371.0

const (
	MinRadiusKm = 1.0
	MaxRadiusKm = 100.0
)

// DistanceKm returns the great-circle distance between two points in km,
// rounded to 2 decimal places.
func DistanceKm(origin, target models.Coordinates) float64 {
	lat1 := origin.Latitude * math.Pi / 180
	lat2 := target.Latitude * math.Pi / 180
	dLat := (target.Latitude - origin.Latitude) * math.Pi / 180
	dLng := (target.Longitude - origin.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	d := 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(d*100) / 100
}

// Within reports whether target lies inside radiusKm of origin, and the
// distance in km. Radius bounds are the caller's job to validate.
func Within(origin, target models.Coordinates, radiusKm float64) (bool, float64) {
	d := DistanceKm(origin, target)
	return d <= radiusKm, d
}
