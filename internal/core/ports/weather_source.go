package ports

import (
	"context"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/weather"
)

// WeatherSource provides current conditions for a geographic point.
// Implementations may call an external provider or return fixed
// readings for development and tests.
type WeatherSource interface {
	// Current returns the latest observation for the given point.
	Current(ctx context.Context, at kernel.GeoPoint) (weather.Reading, error)
}
