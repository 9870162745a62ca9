// Package telemetryrepo persists the drone heartbeat history.
package telemetryrepo

import (
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/ports"

	"github.com/google/uuid"
)

// TelemetrySampleDTO is one persisted heartbeat.
type TelemetrySampleDTO struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	DroneID      uuid.UUID `gorm:"type:uuid;index:idx_telemetry_drone_at;not null"`
	BatteryPct   float64   `gorm:"not null"`
	Latitude     float64   `gorm:"not null"`
	Longitude    float64   `gorm:"not null"`
	Altitude     float64   `gorm:"not null"`
	SpeedMps     float64   `gorm:"not null"`
	TemperatureC float64   `gorm:"not null"`
	At           time.Time `gorm:"index:idx_telemetry_drone_at;not null"`
}

// TableName overrides GORM's default naming to use "telemetry_samples".
func (TelemetrySampleDTO) TableName() string {
	return "telemetry_samples"
}

// fromDomain converts a sample to its database representation.
func fromDomain(sample ports.TelemetrySample) TelemetrySampleDTO {
	return TelemetrySampleDTO{
		DroneID:      sample.DroneID.Bytes(),
		BatteryPct:   sample.BatteryPct,
		Latitude:     sample.Position.Latitude(),
		Longitude:    sample.Position.Longitude(),
		Altitude:     sample.Position.Altitude(),
		SpeedMps:     sample.SpeedMps,
		TemperatureC: sample.TemperatureC,
		At:           sample.At,
	}
}

// toDomain reconstructs a sample from a database row.
func toDomain(dto TelemetrySampleDTO) (ports.TelemetrySample, error) {
	droneID, err := kernel.UUIDFromBytes(dto.DroneID[:])
	if err != nil {
		return ports.TelemetrySample{}, err
	}

	position, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude, dto.Altitude)
	if err != nil {
		return ports.TelemetrySample{}, err
	}

	return ports.TelemetrySample{
		DroneID:      droneID,
		BatteryPct:   dto.BatteryPct,
		Position:     position,
		SpeedMps:     dto.SpeedMps,
		TemperatureC: dto.TemperatureC,
		At:           dto.At,
	}, nil
}
