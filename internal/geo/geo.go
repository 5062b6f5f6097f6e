// Package geo implements the coordinate reference index and great-circle
// distance math behind radius search. The index is built once at startup from
// an embedded city table and is safe for unsynchronized concurrent reads.
package geo

import "math"

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3958.8

// Coordinate is a latitude/longitude pair in floating-point degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CityCoordinate is one row of the static city reference table.
type CityCoordinate struct {
	City  string
	State string
	Lat   float64
	Lng   float64
}

// DistanceMiles returns the haversine great-circle distance between two
// coordinates in miles. Pure and symmetric; identical points yield 0.
func DistanceMiles(a, b Coordinate) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
