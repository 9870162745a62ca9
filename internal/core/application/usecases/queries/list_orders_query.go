package queries

import (
	"errors"

	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// listLimit caps every list query; the API is for dashboards, not exports.
const listLimit = 100

// ListOrdersQuery retrieves orders, newest first, optionally filtered
// by status.
type ListOrdersQuery struct {
	status string

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates an order list query. An empty status means
// no filter; otherwise it must parse as a valid order status.
func NewListOrdersQuery(status string) (ListOrdersQuery, error) {
	if status != "" {
		if _, err := order.StatusFromString(status); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the status filter, empty for none.
func (q ListOrdersQuery) Status() string {
	return q.status
}
