// Package geo provides stateless helpers for distance ranking and
// accent-insensitive text search over collection points.
package geo

import (
	"math"
	"sort"

	"github.com/lmazzini/ecoponto/internal/models"
)

const earthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance in kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RankByDistance returns the points sorted nearest-first from the given
// location. Points without valid coordinates sink to the end, keeping
// their relative order; the input is not modified.
func RankByDistance(points []models.CollectionPoint, lat, lon float64) []models.CollectionPoint {
	out := make([]models.CollectionPoint, len(points))
	copy(out, points)

	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].HasValidCoordinates(), out[j].HasValidCoordinates()
		if vi != vj {
			return vi
		}
		if !vi {
			return false
		}
		di := Distance(lat, lon, *out[i].Latitude, *out[i].Longitude)
		dj := Distance(lat, lon, *out[j].Latitude, *out[j].Longitude)
		return di < dj
	})
	return out
}
