package ports

import (
	"context"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
)

// DroneRepository defines the persistence contract for drone aggregates.
type DroneRepository interface {
	// Add persists a newly registered drone.
	Add(ctx context.Context, aggregate *drone.Drone) error

	// Update persists changes to an existing drone.
	Update(ctx context.Context, aggregate *drone.Drone) error

	// Get retrieves a drone by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error)

	// GetByName retrieves a drone by its call sign.
	GetByName(ctx context.Context, name string) (*drone.Drone, error)

	// GetAll retrieves the whole fleet. Used to rebuild the in-memory
	// registry on startup and to seed the default fleet.
	GetAll(ctx context.Context) ([]*drone.Drone, error)
}
