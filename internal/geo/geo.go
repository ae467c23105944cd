// Package geo provides great-circle math and the unit conversions used
// when walking a flight route.
package geo

import "math"

// Conversion factors
const (
	KmPerKnotHour = 1.852 // one knot is 1.852 km/h
	KmPerMile     = 1.61  // statute miles, matches the training data encoding
	earthRadiusKm = 6371.0
)

// Haversine returns the great circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0

	lat1Rad := lat1 * rad
	lon1Rad := lon1 * rad
	lat2Rad := lat2 * rad
	lon2Rad := lon2 * rad

	dlon := lon2Rad - lon1Rad
	dlat := lat2Rad - lat1Rad

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// KnotsToKmh converts a speed in knots to kilometers per hour
func KnotsToKmh(kts float64) float64 {
	return kts * KmPerKnotHour
}

// KmToMiles converts kilometers to the mile-based unit the regression
// model was trained on
func KmToMiles(km float64) float64 {
	return km / KmPerMile
}
