// Package missionrepo persists mission aggregates.
package missionrepo

import (
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"

	"github.com/google/uuid"
)

// MissionDTO is the database representation of a mission aggregate.
type MissionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index;not null"`
	DroneID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Status         string    `gorm:"type:varchar(32);index;not null"`
	DistanceKm     float64   `gorm:"not null"`
	BatteryUsedPct *float64
	StartedAt      time.Time `gorm:"not null"`
	EndedAt        *time.Time
}

// TableName overrides GORM's default naming to use "missions".
func (MissionDTO) TableName() string {
	return "missions"
}

// fromDomain converts a mission aggregate to its database representation.
func fromDomain(aggregate *mission.Mission) MissionDTO {
	return MissionDTO{
		ID:             aggregate.ID().Bytes(),
		OrderID:        aggregate.Order().Bytes(),
		DroneID:        aggregate.Drone().Bytes(),
		Status:         aggregate.Status().String(),
		DistanceKm:     aggregate.DistanceKm(),
		BatteryUsedPct: aggregate.BatteryUsedPct(),
		StartedAt:      aggregate.StartedAt(),
		EndedAt:        aggregate.EndedAt(),
	}
}

// toDomain reconstructs a mission aggregate from a database row.
func toDomain(dto MissionDTO) (*mission.Mission, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	droneID, err := kernel.UUIDFromBytes(dto.DroneID[:])
	if err != nil {
		return nil, err
	}

	status, err := mission.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return mission.RestoreMission(
		id,
		orderID,
		droneID,
		status,
		dto.DistanceKm,
		dto.BatteryUsedPct,
		dto.StartedAt,
		dto.EndedAt,
	)
}
