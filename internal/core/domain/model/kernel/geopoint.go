package kernel

import (
	"errors"
	"fmt"
	"math"

	"courieragent/internal/pkg/errs"
	"courieragent/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in decimal degrees.
	LatitudeMin float64 = -90
	// LatitudeMax is the maximum valid latitude in decimal degrees.
	LatitudeMax float64 = 90
	// LongitudeMin is the minimum valid longitude in decimal degrees.
	LongitudeMin float64 = -180
	// LongitudeMax is the maximum valid longitude in decimal degrees.
	LongitudeMax float64 = 180

	// earthRadiusMeters is the mean Earth radius used for distance calculations.
	earthRadiusMeters float64 = 6371000
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
// GeoPoints must be created using the NewGeoPoint constructor to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a WGS84 coordinate pair with validated bounds.
// GeoPoint is an immutable value object that ensures latitude and longitude are
// always within valid ranges. The zero value of GeoPoint is invalid and will fail
// validation - use the constructor to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(52.5200, 13.4050)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Point: %s", point) // Output: GeoPoint(52.520000,13.405000)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [LatitudeMin..LatitudeMax] and longitude within
// [LongitudeMin..LongitudeMax]. Returns an error if either value is outside
// its valid bounds.
//
// Parameters:
//   - lat: Latitude in decimal degrees
//   - lng: Longitude in decimal degrees
//
// Returns:
//   - GeoPoint: A valid geo point instance
//   - error: Validation error if a coordinate is out of bounds
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(lat), point.setLongitude(lng)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed using the constructor.
// The zero value of GeoPoint is invalid and will fail this validation.
//
// Returns:
//   - error: ErrGeoPointIsNotConstructed if the point was not properly initialized, nil otherwise
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
// The returned value is guaranteed to be within [LatitudeMin..LatitudeMax]
// for properly constructed GeoPoint instances.
func (p GeoPoint) Latitude() float64 {
	return p.lat
}

// Longitude returns the longitude in decimal degrees.
// The returned value is guaranteed to be within [LongitudeMin..LongitudeMax]
// for properly constructed GeoPoint instances.
func (p GeoPoint) Longitude() float64 {
	return p.lng
}

// IsEqual compares two geo points for exact coordinate equality.
//
// Returns:
//   - true if both points have identical latitude and longitude
//   - false otherwise
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lng == other.lng
}

// DistanceTo returns the great-circle distance to another point in meters,
// computed with the haversine formula on a spherical Earth model. The result
// supports displacement-based sampling filters (e.g. "at least 50 meters since
// the last delivered fix").
//
// Returns:
//   - float64: Distance in meters
//   - error: Validation error if either point was not properly constructed
//
// Example:
//
//	a, _ := kernel.NewGeoPoint(52.5200, 13.4050)
//	b, _ := kernel.NewGeoPoint(52.5205, 13.4050)
//	meters, _ := a.DistanceTo(b) // ~55.6
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	latA := p.lat * math.Pi / 180
	latB := other.lat * math.Pi / 180
	dLat := (other.lat - p.lat) * math.Pi / 180
	dLng := (other.lng - p.lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c, nil
}

// String returns a human-readable string representation of the GeoPoint.
// The format is "GeoPoint(lat,lng)" with six decimal places, which is useful
// for debugging and logging. This method implements the fmt.Stringer interface.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// setLatitude validates and sets the latitude.
// This is a private method used only during construction.
func (p *GeoPoint) setLatitude(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}
	p.lat = lat
	return nil
}

// setLongitude validates and sets the longitude.
// This is a private method used only during construction.
func (p *GeoPoint) setLongitude(lng float64) error {
	if lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", lng, LongitudeMin, LongitudeMax)
	}
	p.lng = lng
	return nil
}
