package queries

import (
	"errors"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/pkg/guard"
)

var ErrListMissionsQueryIsNotConstructed = errors.New(
	"ListMissionsQuery must be created via NewListMissionsQuery constructor",
)

// ListMissionsQuery retrieves missions, newest first, optionally
// filtered by status.
type ListMissionsQuery struct {
	status string

	guard guard.ConstructorGuard
}

// NewListMissionsQuery creates a mission list query. An empty status
// means no filter; otherwise it must parse as a valid mission status.
func NewListMissionsQuery(status string) (ListMissionsQuery, error) {
	if status != "" {
		if _, err := mission.StatusFromString(status); err != nil {
			return ListMissionsQuery{}, err
		}
	}

	return ListMissionsQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListMissionsQuery) Validate() error {
	return q.guard.Validate(ErrListMissionsQueryIsNotConstructed)
}

// Status returns the status filter, empty for none.
func (q ListMissionsQuery) Status() string {
	return q.status
}

// MissionResponse is the mission read model. BatteryUsedPct is only
// present on completed missions.
type MissionResponse struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	DroneID        kernel.UUID
	Status         string
	DistanceKm     float64
	BatteryUsedPct *float64
	StartedAt      time.Time
	EndedAt        *time.Time
}
