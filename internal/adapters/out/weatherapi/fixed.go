package weatherapi

import (
	"context"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/weather"
	"fleetops/internal/pkg/clock"
)

// Fixed is a WeatherSource that always reports the same conditions,
// stamped with the current time. Used when no API key is configured.
type Fixed struct {
	windSpeedMps     float64
	precipitationMmh float64
	visibilityKm     float64
	temperatureC     float64
	clock            clock.Clock
}

// NewFixed creates a source with the given constant conditions.
func NewFixed(windSpeedMps, precipitationMmh, visibilityKm, temperatureC float64, clk clock.Clock) *Fixed {
	return &Fixed{
		windSpeedMps:     windSpeedMps,
		precipitationMmh: precipitationMmh,
		visibilityKm:     visibilityKm,
		temperatureC:     temperatureC,
		clock:            clk,
	}
}

// NewFairWeather creates a source reporting calm flyable conditions.
func NewFairWeather(clk clock.Clock) *Fixed {
	return NewFixed(4, 0, 9, 27, clk)
}

// Current returns the configured conditions observed now.
func (f *Fixed) Current(_ context.Context, _ kernel.GeoPoint) (weather.Reading, error) {
	return weather.NewReading(
		f.windSpeedMps,
		f.precipitationMmh,
		f.visibilityKm,
		f.temperatureC,
		f.clock.Now(),
	)
}
