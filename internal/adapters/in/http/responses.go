package http

import (
	"time"

	"fleetops/internal/core/application/usecases/queries"
)

type orderResponse struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	WeightKg      float64   `json:"weight_kg"`
	Priority      int       `json:"priority"`
	Status        string    `json:"status"`
	DroneID       *string   `json:"drone_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func orderJSON(response queries.OrderResponse) orderResponse {
	var droneID *string
	if response.DroneID != nil {
		value := response.DroneID.String()
		droneID = &value
	}

	return orderResponse{
		ID:            response.ID.String(),
		CustomerName:  response.CustomerName,
		CustomerPhone: response.CustomerPhone,
		Address:       response.Address,
		Latitude:      response.Latitude,
		Longitude:     response.Longitude,
		WeightKg:      response.WeightKg,
		Priority:      response.Priority,
		Status:        response.Status,
		DroneID:       droneID,
		CreatedAt:     response.CreatedAt,
		UpdatedAt:     response.UpdatedAt,
	}
}

type droneResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MaxPayloadKg    float64   `json:"max_payload_kg"`
	BatteryPct      float64   `json:"battery_pct"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Status          string    `json:"status"`
	MissionID       *string   `json:"mission_id,omitempty"`
	LastSeenAt      time.Time `json:"last_seen_at"`
	TotalFlights    int       `json:"total_flights"`
	TotalDistanceKm float64   `json:"total_distance_km"`
}

func droneJSON(response queries.DroneResponse) droneResponse {
	var missionID *string
	if response.MissionID != nil {
		value := response.MissionID.String()
		missionID = &value
	}

	return droneResponse{
		ID:              response.ID.String(),
		Name:            response.Name,
		MaxPayloadKg:    response.MaxPayloadKg,
		BatteryPct:      response.BatteryPct,
		Latitude:        response.Latitude,
		Longitude:       response.Longitude,
		Status:          response.Status,
		MissionID:       missionID,
		LastSeenAt:      response.LastSeenAt,
		TotalFlights:    response.TotalFlights,
		TotalDistanceKm: response.TotalDistanceKm,
	}
}

type missionResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	DroneID        string     `json:"drone_id"`
	Status         string     `json:"status"`
	DistanceKm     float64    `json:"distance_km"`
	BatteryUsedPct *float64   `json:"battery_used_pct,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

func missionJSON(response queries.MissionResponse) missionResponse {
	return missionResponse{
		ID:             response.ID.String(),
		OrderID:        response.OrderID.String(),
		DroneID:        response.DroneID.String(),
		Status:         response.Status,
		DistanceKm:     response.DistanceKm,
		BatteryUsedPct: response.BatteryUsedPct,
		StartedAt:      response.StartedAt,
		EndedAt:        response.EndedAt,
	}
}

type fleetStatsResponse struct {
	OrdersByStatus   map[string]int `json:"orders_by_status"`
	DronesByStatus   map[string]int `json:"drones_by_status"`
	MissionsByStatus map[string]int `json:"missions_by_status"`
	ActiveCodes      int            `json:"active_codes"`
	ArchivedCodes    int            `json:"archived_codes"`
}

func fleetStatsJSON(response queries.GetFleetStatsQueryResponse) fleetStatsResponse {
	return fleetStatsResponse{
		OrdersByStatus:   response.OrdersByStatus,
		DronesByStatus:   response.DronesByStatus,
		MissionsByStatus: response.MissionsByStatus,
		ActiveCodes:      response.ActiveCodes,
		ArchivedCodes:    response.ArchivedCodes,
	}
}
