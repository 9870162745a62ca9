// Package orderrepo persists order aggregates. It maps between the
// domain model and the orders table, storing statuses as their wire
// strings so rows stay readable in psql.
package orderrepo

import (
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database representation of an order aggregate.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerName  string     `gorm:"type:varchar(255);not null"`
	CustomerPhone string     `gorm:"type:varchar(32);not null"`
	Address       string     `gorm:"type:varchar(512);not null"`
	DestLatitude  float64    `gorm:"not null"`
	DestLongitude float64    `gorm:"not null"`
	DestAltitude  float64    `gorm:"not null"`
	WeightKg      float64    `gorm:"not null"`
	Priority      int        `gorm:"not null"`
	Status        string     `gorm:"type:varchar(32);index;not null"`
	DroneID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var droneID *uuid.UUID
	if id := aggregate.Drone(); id != nil {
		raw := id.Bytes()
		droneID = &raw
	}

	dest := aggregate.Destination()

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		CustomerName:  aggregate.CustomerName(),
		CustomerPhone: aggregate.CustomerPhone(),
		Address:       aggregate.Address(),
		DestLatitude:  dest.Latitude(),
		DestLongitude: dest.Longitude(),
		DestAltitude:  dest.Altitude(),
		WeightKg:      aggregate.WeightKg(),
		Priority:      int(aggregate.Priority()),
		Status:        aggregate.Status().String(),
		DroneID:       droneID,
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
	}
}

// toDomain reconstructs an order aggregate from a database row.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var droneID *kernel.UUID
	if dto.DroneID != nil {
		ref, refErr := kernel.UUIDFromBytes((*dto.DroneID)[:])
		if refErr != nil {
			return nil, refErr
		}
		droneID = &ref
	}

	dest, err := kernel.NewGeoPoint(dto.DestLatitude, dto.DestLongitude, dto.DestAltitude)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	priority, err := order.PriorityFromInt(dto.Priority)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.CustomerName,
		dto.CustomerPhone,
		dto.Address,
		dest,
		dto.WeightKg,
		priority,
		status,
		droneID,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
