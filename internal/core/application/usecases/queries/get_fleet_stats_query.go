package queries

import (
	"errors"

	"fleetops/internal/pkg/guard"
)

var ErrGetFleetStatsQueryIsNotConstructed = errors.New(
	"GetFleetStatsQuery must be created via NewGetFleetStatsQuery constructor",
)

// GetFleetStatsQuery retrieves aggregate counts for the operations
// dashboard: orders and drones broken down by status, plus mission and
// delivery-code totals.
type GetFleetStatsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetFleetStatsQuery creates a parameterless stats query.
func NewGetFleetStatsQuery() GetFleetStatsQuery {
	return GetFleetStatsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetFleetStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetStatsQueryIsNotConstructed)
}

// GetFleetStatsQueryResponse is the dashboard read model.
type GetFleetStatsQueryResponse struct {
	OrdersByStatus   map[string]int
	DronesByStatus   map[string]int
	MissionsByStatus map[string]int
	ActiveCodes      int
	ArchivedCodes    int
}
