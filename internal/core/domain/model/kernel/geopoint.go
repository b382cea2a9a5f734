package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed indicates that a GeoPoint was not created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable latitude/longitude pair recorded at the two
// physically sensitive handoffs (delivery to the buyer, return pickup and
// drop-off) for audit purposes. Coordinates are validated to the WGS84 range.
//
// The zero value is invalid; use NewGeoPoint. Handoff locations are optional
// in the domain model, so absent coordinates are represented by *GeoPoint nil,
// never by a zero value.
type GeoPoint struct {
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a validated GeoPoint.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	if latitude < minLatitude || latitude > maxLatitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", latitude, minLatitude, maxLatitude)
	}
	if longitude < minLongitude || longitude > maxLongitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", longitude, minLongitude, maxLongitude)
	}

	return GeoPoint{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Latitude returns the latitude in decimal degrees.
func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

// Longitude returns the longitude in decimal degrees.
func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// IsEqual compares two points by exact coordinate equality.
func (g GeoPoint) IsEqual(other GeoPoint) bool {
	return g.latitude == other.latitude && g.longitude == other.longitude
}

// String renders the point as "lat,lon" with six decimal places.
func (g GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", g.latitude, g.longitude)
}

// Validate returns ErrGeoPointIsNotConstructed for the zero value.
func (g GeoPoint) Validate() error {
	return g.guard.Validate(ErrGeoPointIsNotConstructed)
}
