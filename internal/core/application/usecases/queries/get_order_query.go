// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read the storage mirror directly and return flat read models;
// they never touch the in-memory registry.
package queries

import (
	"errors"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order by its identifier.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderResponse is the order read model shared by the order queries.
type OrderResponse struct {
	ID            kernel.UUID
	CustomerName  string
	CustomerPhone string
	Address       string
	Latitude      float64
	Longitude     float64
	WeightKg      float64
	Priority      int
	Status        string
	DroneID       *kernel.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
