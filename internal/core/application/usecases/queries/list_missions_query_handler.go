package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleetops/internal/core/domain/model/kernel"
)

// ListMissionsQueryHandler retrieves missions from the storage mirror.
// Both live and archived missions are visible here; the registry only
// holds the live ones.
type ListMissionsQueryHandler struct {
	db *gorm.DB
}

// NewListMissionsQueryHandler creates a handler for mission list queries.
func NewListMissionsQueryHandler(db *gorm.DB) ListMissionsQueryHandler {
	return ListMissionsQueryHandler{db: db}
}

// Handle executes the query. Returns at most a hundred missions, newest
// first, honouring the optional status filter.
func (h ListMissionsQueryHandler) Handle(
	ctx context.Context,
	query ListMissionsQuery,
) ([]MissionResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const baseQuery = `
		SELECT
			id,
			order_id,
			drone_id,
			status,
			distance_km,
			battery_used_pct,
			started_at,
			ended_at
		FROM missions
	`

	tx := h.db.WithContext(ctx)
	var rows *sql.Rows
	var err error
	if query.Status() != "" {
		rows, err = tx.Raw(baseQuery+`
		WHERE status = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, query.Status(), listLimit).Rows()
	} else {
		rows, err = tx.Raw(baseQuery+`
		ORDER BY started_at DESC
		LIMIT ?
	`, listLimit).Rows()
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missions := make([]MissionResponse, 0)
	for rows.Next() {
		var (
			response MissionResponse
			id       uuid.UUID
			orderID  uuid.UUID
			droneID  uuid.UUID
			endedAt  *time.Time
		)

		err = rows.Scan(
			&id,
			&orderID,
			&droneID,
			&response.Status,
			&response.DistanceKm,
			&response.BatteryUsedPct,
			&response.StartedAt,
			&endedAt,
		)
		if err != nil {
			return nil, err
		}

		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if response.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if response.DroneID, err = kernel.UUIDFromBytes(droneID[:]); err != nil {
			return nil, err
		}
		response.EndedAt = endedAt

		missions = append(missions, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return missions, nil
}
