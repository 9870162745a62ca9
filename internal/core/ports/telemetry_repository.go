package ports

import (
	"context"
	"time"

	"fleetops/internal/core/domain/model/kernel"
)

// TelemetrySample is one persisted heartbeat from a drone.
type TelemetrySample struct {
	// DroneID is the reporting drone.
	DroneID kernel.UUID
	// BatteryPct is the reported charge level.
	BatteryPct float64
	// Position is the reported location.
	Position kernel.GeoPoint
	// SpeedMps is the reported ground speed in meters per second.
	SpeedMps float64
	// TemperatureC is the reported airframe temperature in Celsius.
	TemperatureC float64
	// At is when the sample was reported.
	At time.Time
}

// TelemetryRepository defines the persistence contract for the
// telemetry history.
type TelemetryRepository interface {
	// AddSample appends a heartbeat to the history.
	AddSample(ctx context.Context, sample TelemetrySample) error

	// GetRecentByDrone retrieves the newest samples for a drone,
	// newest first, up to limit.
	GetRecentByDrone(ctx context.Context, droneID kernel.UUID, limit int) ([]TelemetrySample, error)
}
