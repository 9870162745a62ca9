package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetFleetStatsQueryHandler aggregates fleet counters from the storage
// mirror for the operations dashboard.
type GetFleetStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetFleetStatsQueryHandler creates a handler for fleet stats queries.
func NewGetFleetStatsQueryHandler(db *gorm.DB) GetFleetStatsQueryHandler {
	return GetFleetStatsQueryHandler{db: db}
}

// Handle executes the query.
func (h GetFleetStatsQueryHandler) Handle(
	ctx context.Context,
	query GetFleetStatsQuery,
) (GetFleetStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFleetStatsQueryResponse{}, err
	}

	response := GetFleetStatsQueryResponse{
		OrdersByStatus:   make(map[string]int),
		DronesByStatus:   make(map[string]int),
		MissionsByStatus: make(map[string]int),
	}

	tx := h.db.WithContext(ctx)

	tables := []struct {
		table string
		into  map[string]int
	}{
		{"orders", response.OrdersByStatus},
		{"drones", response.DronesByStatus},
		{"missions", response.MissionsByStatus},
	}
	for _, t := range tables {
		if err := countByStatus(tx, t.table, t.into); err != nil {
			return GetFleetStatsQueryResponse{}, err
		}
	}

	err := tx.Raw(`SELECT COUNT(*) FROM active_codes`).Row().Scan(&response.ActiveCodes)
	if err != nil {
		return GetFleetStatsQueryResponse{}, err
	}

	err = tx.Raw(`SELECT COUNT(*) FROM archived_codes`).Row().Scan(&response.ArchivedCodes)
	if err != nil {
		return GetFleetStatsQueryResponse{}, err
	}

	return response, nil
}

func countByStatus(tx *gorm.DB, table string, into map[string]int) error {
	rows, err := tx.Raw(`
		SELECT status, COUNT(*)
		FROM ` + table + `
		GROUP BY status
	`).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return err
		}
		into[status] = count
	}

	return rows.Err()
}
