package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
)

// GetOrderQueryHandler retrieves a single order from the storage mirror.
// Uses direct SQL for optimal read performance in the CQRS pattern.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns ObjectNotFoundError when no order
// exists with the requested ID.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			customer_phone,
			address,
			dest_latitude,
			dest_longitude,
			weight_kg,
			priority,
			status,
			drone_id,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	response, err := scanOrderRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}
	if err != nil {
		return OrderResponse{}, err
	}
	return response, nil
}

// scanOrderRow maps one orders row onto the read model. Shared with the
// list query, which feeds it rows.Scan.
func scanOrderRow(scan func(dest ...any) error) (OrderResponse, error) {
	var (
		response  OrderResponse
		id        uuid.UUID
		droneID   *uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)

	err := scan(
		&id,
		&response.CustomerName,
		&response.CustomerPhone,
		&response.Address,
		&response.Latitude,
		&response.Longitude,
		&response.WeightKg,
		&response.Priority,
		&response.Status,
		&droneID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderResponse{}, err
	}
	response.ID = orderID

	if droneID != nil {
		ref, refErr := kernel.UUIDFromBytes(droneID[:])
		if refErr != nil {
			return OrderResponse{}, refErr
		}
		response.DroneID = &ref
	}

	response.CreatedAt = createdAt
	response.UpdatedAt = updatedAt
	return response, nil
}
