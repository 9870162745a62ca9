package commands

import (
	"errors"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/guard"
)

var ErrAssignMissionCommandIsNotConstructed = errors.New(
	"AssignMissionCommand must be created via NewAssignMissionCommand constructor",
)

// AssignMissionCommand represents a request to match a pending order with
// an available drone and launch a delivery mission for it. The caller
// can name a specific drone; otherwise the dispatcher picks the best
// available one.
type AssignMissionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	droneID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignMissionCommand creates a command to assign the given order to
// the best available drone.
func NewAssignMissionCommand(orderID kernel.UUID) (AssignMissionCommand, error) {
	assignCommand := AssignMissionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := assignCommand.setOrderID(orderID); err != nil {
		return AssignMissionCommand{}, err
	}

	return assignCommand, nil
}

// NewAssignMissionCommandForDrone creates a command to assign the given
// order to a specific drone. The drone's availability is checked during
// handling, under the same locks a dispatched assignment uses.
func NewAssignMissionCommandForDrone(orderID, droneID kernel.UUID) (AssignMissionCommand, error) {
	assignCommand, err := NewAssignMissionCommand(orderID)
	if err != nil {
		return AssignMissionCommand{}, err
	}

	if err := droneID.Validate(); err != nil {
		return AssignMissionCommand{}, err
	}
	assignCommand.droneID = &droneID

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignMissionCommand) Validate() error {
	return c.guard.Validate(ErrAssignMissionCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignMissionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DroneID returns the requested drone, or nil when the dispatcher
// should pick one.
func (c AssignMissionCommand) DroneID() *kernel.UUID {
	return c.droneID
}

func (c *AssignMissionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
