package kernel

import (
	"errors"
	"fmt"
	"math"

	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

const (
	// LatitudeMin and LatitudeMax bound valid latitudes in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0
	// LongitudeMin and LongitudeMax bound valid longitudes in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// earthRadiusKm is Earth's mean radius used by the Haversine formula.
	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when using an improperly initialized GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object representing a WGS84 position with an
// optional altitude in meters. The zero value is invalid and fails validation;
// use NewGeoPoint.
//
// GeoPoint carries the great-circle math the core needs: distance between a
// drone and a delivery destination, and displacement between consecutive
// telemetry samples for GPS drift detection.
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	altitude  float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with validated coordinates. Latitude must be
// within [-90, 90] and longitude within [-180, 180]; altitude is meters above
// ground and is not range-checked.
func NewGeoPoint(latitude, longitude, altitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setLatitude(latitude),
		p.setLongitude(longitude),
		p.setAltitude(altitude),
	); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks the GeoPoint was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// Altitude returns the altitude in meters.
func (p GeoPoint) Altitude() float64 {
	return p.altitude
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.4f,%.4f,%.1fm)", p.latitude, p.longitude, p.altitude)
}

// IsEqual compares two points by coordinates and altitude. Both points must
// be properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p == other, nil
}

// DistanceKm calculates the great-circle distance to another point in
// kilometers using the Haversine formula. Altitude is ignored.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLon := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c, nil
}

// DisplacementMeters calculates the great-circle displacement to another
// point in meters. Used for GPS drift detection between telemetry samples.
func (p GeoPoint) DisplacementMeters(other GeoPoint) (float64, error) {
	km, err := p.DistanceKm(other)
	if err != nil {
		return 0, err
	}
	return km * 1000, nil
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax || math.IsNaN(latitude) {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax || math.IsNaN(longitude) {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	p.longitude = longitude
	return nil
}

func (p *GeoPoint) setAltitude(altitude float64) error {
	if math.IsNaN(altitude) {
		return errs.NewValueIsInvalidError("altitude")
	}
	p.altitude = altitude
	return nil
}
