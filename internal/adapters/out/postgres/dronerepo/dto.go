// Package dronerepo persists drone aggregates.
package dronerepo

import (
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DroneDTO is the database representation of a drone aggregate.
type DroneDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name            string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	MaxPayloadKg    float64    `gorm:"not null"`
	BatteryPct      float64    `gorm:"not null"`
	Latitude        float64    `gorm:"not null"`
	Longitude       float64    `gorm:"not null"`
	Altitude        float64    `gorm:"not null"`
	Status          string     `gorm:"type:varchar(32);index;not null"`
	MissionID       *uuid.UUID `gorm:"type:uuid"`
	LastSeenAt      time.Time  `gorm:"not null"`
	TotalFlights    int        `gorm:"not null"`
	TotalDistanceKm float64    `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "drones".
func (DroneDTO) TableName() string {
	return "drones"
}

// fromDomain converts a drone aggregate to its database representation.
func fromDomain(aggregate *drone.Drone) DroneDTO {
	var missionID *uuid.UUID
	if id := aggregate.Mission(); id != nil {
		raw := id.Bytes()
		missionID = &raw
	}

	position := aggregate.Position()

	return DroneDTO{
		ID:              aggregate.ID().Bytes(),
		Name:            aggregate.Name(),
		MaxPayloadKg:    aggregate.MaxPayloadKg(),
		BatteryPct:      aggregate.BatteryPct(),
		Latitude:        position.Latitude(),
		Longitude:       position.Longitude(),
		Altitude:        position.Altitude(),
		Status:          aggregate.Status().String(),
		MissionID:       missionID,
		LastSeenAt:      aggregate.LastSeenAt(),
		TotalFlights:    aggregate.TotalFlights(),
		TotalDistanceKm: aggregate.TotalDistanceKm(),
	}
}

// toDomain reconstructs a drone aggregate from a database row.
func toDomain(dto DroneDTO) (*drone.Drone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var missionID *kernel.UUID
	if dto.MissionID != nil {
		ref, refErr := kernel.UUIDFromBytes((*dto.MissionID)[:])
		if refErr != nil {
			return nil, refErr
		}
		missionID = &ref
	}

	position, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude, dto.Altitude)
	if err != nil {
		return nil, err
	}

	status, err := drone.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return drone.RestoreDrone(
		id,
		dto.Name,
		dto.MaxPayloadKg,
		dto.BatteryPct,
		position,
		status,
		missionID,
		dto.LastSeenAt,
		dto.TotalFlights,
		dto.TotalDistanceKm,
	)
}
