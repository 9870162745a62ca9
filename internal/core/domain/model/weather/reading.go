// Package weather contains the weather Reading value object consumed
// by the launch safety gate.
package weather

import (
	"errors"
	"fmt"
	"time"

	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

// ErrReadingIsNotConstructed is returned when using an improperly
// initialized Reading.
var ErrReadingIsNotConstructed = errors.New("Reading must be created via NewReading constructor")

// Reading is one observation of launch-relevant conditions at the
// operating area.
type Reading struct {
	// windSpeedMps is sustained wind in meters per second
	windSpeedMps float64
	// precipitationMmh is rainfall rate in millimeters per hour
	precipitationMmh float64
	// visibilityKm is horizontal visibility in kilometers
	visibilityKm float64
	// temperatureC is air temperature in degrees Celsius
	temperatureC float64
	// observedAt is when the observation was taken
	observedAt time.Time
	// guard ensures the reading was properly constructed
	guard guard.ConstructorGuard
}

// NewReading creates a validated weather observation. Wind,
// precipitation and visibility must not be negative.
func NewReading(
	windSpeedMps float64,
	precipitationMmh float64,
	visibilityKm float64,
	temperatureC float64,
	observedAt time.Time,
) (Reading, error) {
	r := Reading{
		temperatureC: temperatureC,
		observedAt:   observedAt,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setWindSpeedMps(windSpeedMps),
		r.setPrecipitationMmh(precipitationMmh),
		r.setVisibilityKm(visibilityKm),
	); err != nil {
		return Reading{}, err
	}

	return r, nil
}

// Validate checks if the Reading was properly constructed.
func (r Reading) Validate() error {
	return r.guard.Validate(ErrReadingIsNotConstructed)
}

// WindSpeedMps returns sustained wind in meters per second.
func (r Reading) WindSpeedMps() float64 {
	return r.windSpeedMps
}

// PrecipitationMmh returns rainfall rate in millimeters per hour.
func (r Reading) PrecipitationMmh() float64 {
	return r.precipitationMmh
}

// VisibilityKm returns horizontal visibility in kilometers.
func (r Reading) VisibilityKm() float64 {
	return r.visibilityKm
}

// TemperatureC returns air temperature in degrees Celsius.
func (r Reading) TemperatureC() float64 {
	return r.temperatureC
}

// ObservedAt returns when the observation was taken.
func (r Reading) ObservedAt() time.Time {
	return r.observedAt
}

func (r *Reading) setWindSpeedMps(v float64) error {
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause("windSpeedMps",
			fmt.Errorf("%v is not greater or equal to 0", v))
	}
	r.windSpeedMps = v
	return nil
}

func (r *Reading) setPrecipitationMmh(v float64) error {
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause("precipitationMmh",
			fmt.Errorf("%v is not greater or equal to 0", v))
	}
	r.precipitationMmh = v
	return nil
}

func (r *Reading) setVisibilityKm(v float64) error {
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause("visibilityKm",
			fmt.Errorf("%v is not greater or equal to 0", v))
	}
	r.visibilityKm = v
	return nil
}
