// Package geo provides the coordinate primitives and great-circle distance
// math shared by the grouping and routing services.  All distances are in
// statute miles.
package geo

import "math"

// earthRadiusMiles is the mean Earth radius used for haversine distance.
const earthRadiusMiles = 3959.0

// Coordinates is a WGS84 latitude/longitude pair.  The zero value is treated
// as "no coordinates on file" throughout the engine, so properties at exactly
// (0, 0) cannot be geographically grouped or routed.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair is a usable position: inside the WGS84
// envelope and not the (0, 0) sentinel.
func (c Coordinates) Valid() bool {
	if c.Latitude == 0 && c.Longitude == 0 {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Distance returns the haversine great-circle distance in miles between c and
// other.  Inputs are assumed valid; callers gate on Valid() first.
func (c Coordinates) Distance(other Coordinates) float64 {
	lat1 := radians(c.Latitude)
	lat2 := radians(other.Latitude)
	dLat := radians(other.Latitude - c.Latitude)
	dLng := radians(other.Longitude - c.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
