package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleetops/internal/core/domain/model/kernel"
)

// ListDronesQueryHandler retrieves the fleet from the storage mirror.
type ListDronesQueryHandler struct {
	db *gorm.DB
}

// NewListDronesQueryHandler creates a handler for fleet list queries.
func NewListDronesQueryHandler(db *gorm.DB) ListDronesQueryHandler {
	return ListDronesQueryHandler{db: db}
}

// Handle executes the query. Drones come back sorted by call sign.
func (h ListDronesQueryHandler) Handle(
	ctx context.Context,
	query ListDronesQuery,
) ([]DroneResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const baseQuery = `
		SELECT
			id,
			name,
			max_payload_kg,
			battery_pct,
			latitude,
			longitude,
			status,
			mission_id,
			last_seen_at,
			total_flights,
			total_distance_km
		FROM drones
	`

	tx := h.db.WithContext(ctx)
	var rows *sql.Rows
	var err error
	if query.Status() != "" {
		rows, err = tx.Raw(baseQuery+`
		WHERE status = ?
		ORDER BY name
	`, query.Status()).Rows()
	} else {
		rows, err = tx.Raw(baseQuery + `
		ORDER BY name
	`).Rows()
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drones := make([]DroneResponse, 0)
	for rows.Next() {
		var (
			response  DroneResponse
			id        uuid.UUID
			missionID *uuid.UUID
		)

		err = rows.Scan(
			&id,
			&response.Name,
			&response.MaxPayloadKg,
			&response.BatteryPct,
			&response.Latitude,
			&response.Longitude,
			&response.Status,
			&missionID,
			&response.LastSeenAt,
			&response.TotalFlights,
			&response.TotalDistanceKm,
		)
		if err != nil {
			return nil, err
		}

		droneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = droneID

		if missionID != nil {
			ref, refErr := kernel.UUIDFromBytes(missionID[:])
			if refErr != nil {
				return nil, refErr
			}
			response.MissionID = &ref
		}

		drones = append(drones, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drones, nil
}
