package ports

import (
	"context"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
)

// MissionRepository defines the persistence contract for mission aggregates.
type MissionRepository interface {
	// Add persists a newly created mission.
	Add(ctx context.Context, aggregate *mission.Mission) error

	// Update persists changes to an existing mission.
	Update(ctx context.Context, aggregate *mission.Mission) error

	// Get retrieves a mission by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*mission.Mission, error)

	// GetAllInProgress retrieves every live mission. Used to rebuild
	// the in-memory registry on startup and by the timeout sweep.
	GetAllInProgress(ctx context.Context) ([]*mission.Mission, error)
}
