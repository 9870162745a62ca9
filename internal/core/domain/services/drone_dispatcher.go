package services

import (
	"errors"
	"math"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/order"
)

// ErrDroneNotFound is returned when no suitable drone is available for
// an order. This occurs when either no drones are provided or none of
// them is idle, charged above the assignment floor and able to carry
// the payload.
var ErrDroneNotFound = errors.New("no suitable drone available")

// DroneDispatcher is a domain service responsible for selecting the
// best drone for a delivery order.
//
// Business rules:
//   - Orders must be valid and in Pending status
//   - Candidate drones must be available (idle, charged) and able to
//     carry the order's payload
//   - Among candidates, the drone closest to the delivery destination
//     wins; battery level breaks ties
//
// The dispatcher only selects; it does not mutate the order or the
// drone. The caller owns the assignment transaction so locking and
// persistence stay in one place.
type DroneDispatcher struct{}

// NewDroneDispatcher creates a new DroneDispatcher instance.
func NewDroneDispatcher() DroneDispatcher {
	return DroneDispatcher{}
}

// Dispatch finds the best drone for the given order.
//
// Returns:
//   - *drone.Drone: the selected drone
//   - error: ErrDroneNotFound if no candidate qualifies, or a
//     validation error
func (d DroneDispatcher) Dispatch(o *order.Order, drones []*drone.Drone) (*drone.Drone, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Pending {
		return nil, errors.New("only pending orders can be dispatched")
	}

	var best *drone.Drone
	bestDistance := math.MaxFloat64
	bestBattery := -1.0

	for _, candidate := range drones {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}

		if !candidate.IsAvailable() || !candidate.CanCarry(o.WeightKg()) {
			continue
		}

		distance, err := candidate.Position().DistanceKm(o.Destination())
		if err != nil {
			return nil, err
		}

		if distance < bestDistance ||
			(distance == bestDistance && candidate.BatteryPct() > bestBattery) {
			best = candidate
			bestDistance = distance
			bestBattery = candidate.BatteryPct()
		}
	}

	if best == nil {
		return nil, ErrDroneNotFound
	}

	return best, nil
}
