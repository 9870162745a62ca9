package commands

import (
	"errors"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand requests a direct order state transition.
// Used by the operator API; assignment and completion have their own
// richer commands.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	droneID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a status transition command.
// droneID is required when the target is "assigned" and ignored otherwise.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	droneID *kernel.UUID,
) (UpdateOrderStatusCommand, error) {
	statusCommand := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setTarget(target),
		statusCommand.setDroneID(droneID),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c UpdateOrderStatusCommand) Target() order.Status {
	return c.target
}

// DroneID returns the drone reference for assignment targets, nil otherwise.
func (c UpdateOrderStatusCommand) DroneID() *kernel.UUID {
	return c.droneID
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *UpdateOrderStatusCommand) setDroneID(droneID *kernel.UUID) error {
	if droneID != nil {
		if err := droneID.Validate(); err != nil {
			return err
		}
	}

	c.droneID = droneID
	return nil
}
