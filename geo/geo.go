// Package geo holds the coordinate type shared by the query engine and the
// in-memory store.
package geo

import (
	"math"
	"strconv"

	"recreo/errs"
)

// EarthRadiusMeters matches the sphere MongoDB uses for $geoNear on
// GeoJSON points, so the memory store and Mongo agree on distances.
const EarthRadiusMeters = 6378100.0

// MissingPointMsg is returned whenever lng/lat are absent or unusable.
const MissingPointMsg = "Query parameters 'lng' and 'lat' are required."

// Point is a [longitude, latitude] pair in degrees.
type Point struct {
	Lng float64
	Lat float64
}

// Coordinates returns the GeoJSON ordering.
func (p Point) Coordinates() []float64 {
	return []float64{p.Lng, p.Lat}
}

// ParsePoint parses query-string coordinates. A value that is missing,
// non-numeric, NaN or exactly zero is rejected, as is anything outside the
// valid degree ranges.
func ParsePoint(lng, lat string) (Point, error) {
	x, okX := parseCoord(lng)
	y, okY := parseCoord(lat)
	if !okX || !okY {
		return Point{}, errs.Validation(MissingPointMsg)
	}
	if x < -180 || x > 180 || y < -90 || y > 90 {
		return Point{}, errs.Validation("Query parameters 'lng' and 'lat' are out of range.")
	}
	return Point{Lng: x, Lat: y}, nil
}

func parseCoord(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0, false
	}
	return v, true
}

// FromCoordinates converts a stored [lng, lat] slice. ok is false unless
// exactly two finite numbers are present.
func FromCoordinates(c []float64) (Point, bool) {
	if len(c) != 2 {
		return Point{}, false
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Point{}, false
		}
	}
	return Point{Lng: c[0], Lat: c[1]}, true
}

// Distance is the great-circle distance between a and b in metres.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// KilometersToMeters converts a caller-supplied radius.
func KilometersToMeters(km float64) float64 {
	return km * 1000
}
