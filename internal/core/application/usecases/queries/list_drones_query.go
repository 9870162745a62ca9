package queries

import (
	"errors"
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/guard"
)

var ErrListDronesQueryIsNotConstructed = errors.New(
	"ListDronesQuery must be created via NewListDronesQuery constructor",
)

// ListDronesQuery retrieves the fleet, optionally filtered by status.
type ListDronesQuery struct {
	status string

	guard guard.ConstructorGuard
}

// NewListDronesQuery creates a fleet list query. An empty status means
// no filter; otherwise it must parse as a valid drone status.
func NewListDronesQuery(status string) (ListDronesQuery, error) {
	if status != "" {
		if _, err := drone.StatusFromString(status); err != nil {
			return ListDronesQuery{}, err
		}
	}

	return ListDronesQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListDronesQuery) Validate() error {
	return q.guard.Validate(ErrListDronesQueryIsNotConstructed)
}

// Status returns the status filter, empty for none.
func (q ListDronesQuery) Status() string {
	return q.status
}

// DroneResponse is the drone read model.
type DroneResponse struct {
	ID              kernel.UUID
	Name            string
	MaxPayloadKg    float64
	BatteryPct      float64
	Latitude        float64
	Longitude       float64
	Status          string
	MissionID       *kernel.UUID
	LastSeenAt      time.Time
	TotalFlights    int
	TotalDistanceKm float64
}
