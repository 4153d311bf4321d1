package Geo

import "math"

// earthRadiusKM is the mean Earth radius in kilometers.
const earthRadiusKM = 6371.0

// Distance calculates the great-circle distance in kilometers between two
// coordinates using the Haversine formula. Callers are expected to pass
// latitudes in [-90, 90] and longitudes in [-180, 180]; out-of-range values
// still produce a result, just not a meaningful one.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// WithinRadius reports whether the two points are at most radiusKM apart.
func WithinRadius(lat1, lon1, lat2, lon2, radiusKM float64) bool {
	return Distance(lat1, lon1, lat2, lon2) <= radiusKM
}
