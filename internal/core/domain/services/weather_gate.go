package services

import (
	"fmt"

	"fleetops/internal/core/domain/model/weather"
)

// Launch safety limits. A mission may only launch when every limit is
// satisfied.
const (
	// MaxWindSpeedMps is the sustained wind ceiling.
	MaxWindSpeedMps = 12.0
	// MaxPrecipitationMmh is the rainfall rate ceiling.
	MaxPrecipitationMmh = 2.0
	// MinVisibilityKm is the visibility floor.
	MinVisibilityKm = 1.0
	// MinTemperatureC and MaxTemperatureC bound the operating range.
	MinTemperatureC = 0.0
	MaxTemperatureC = 45.0
)

// WeatherGate is a domain service that decides whether current
// conditions permit a launch. It is pure: the caller supplies the
// reading, the gate returns the verdict and the reasons for a denial.
type WeatherGate struct{}

// NewWeatherGate creates a new WeatherGate instance.
func NewWeatherGate() WeatherGate {
	return WeatherGate{}
}

// Evaluate checks a reading against every launch limit.
//
// Returns:
//   - true and an empty slice when launch is safe
//   - false and one human-readable reason per violated limit
//
// All limits are evaluated; a denial lists every violation, not just
// the first one.
func (g WeatherGate) Evaluate(r weather.Reading) (bool, []string, error) {
	if err := r.Validate(); err != nil {
		return false, nil, err
	}

	var reasons []string

	if r.WindSpeedMps() > MaxWindSpeedMps {
		reasons = append(reasons, fmt.Sprintf(
			"wind speed %.1f m/s exceeds limit %.1f m/s", r.WindSpeedMps(), MaxWindSpeedMps))
	}
	if r.PrecipitationMmh() > MaxPrecipitationMmh {
		reasons = append(reasons, fmt.Sprintf(
			"precipitation %.1f mm/h exceeds limit %.1f mm/h", r.PrecipitationMmh(), MaxPrecipitationMmh))
	}
	if r.VisibilityKm() < MinVisibilityKm {
		reasons = append(reasons, fmt.Sprintf(
			"visibility %.1f km below minimum %.1f km", r.VisibilityKm(), MinVisibilityKm))
	}
	if r.TemperatureC() < MinTemperatureC || r.TemperatureC() > MaxTemperatureC {
		reasons = append(reasons, fmt.Sprintf(
			"temperature %.1f C outside operating range %.1f to %.1f C",
			r.TemperatureC(), MinTemperatureC, MaxTemperatureC))
	}

	return len(reasons) == 0, reasons, nil
}
