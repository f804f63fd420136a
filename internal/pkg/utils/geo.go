package utils

import "math"

const earthRadiusMeters = 6371000

// CalculateHaversineDistance returns the great-circle distance in meters between two coordinates.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinRadius reports whether the point lies inside the circle, boundary included.
func IsWithinRadius(centerLat, centerLon float64, radiusMeters float64, lat, lon float64) (bool, float64) {
	distance := CalculateHaversineDistance(centerLat, centerLon, lat, lon)
	return distance <= radiusMeters, distance
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
