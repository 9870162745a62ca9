package commands

import (
	"context"
	"errors"
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
	"fleetops/internal/pkg/errs"
)

// ErrDroneRefIsRequired is returned when an "assigned" transition is
// requested without a drone reference.
var ErrDroneRefIsRequired = errors.New("assigned status requires a drone reference")

// UpdateOrderStatusCommandHandler applies operator-driven order
// transitions. Moving an order to "in_transit" also launches the owning
// drone so the two state machines stay in step.
type UpdateOrderStatusCommandHandler struct {
	registry   *fleet.Registry
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status updates.
func NewUpdateOrderStatusCommandHandler(
	registry *fleet.Registry,
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		registry:   registry,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the status update command.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()

	switch cmd.Target() {
	case order.Assigned:
		if cmd.DroneID() == nil {
			return ErrDroneRefIsRequired
		}
		return h.assign(ctx, cmd.OrderID(), *cmd.DroneID(), now)
	case order.InTransit:
		return h.transit(ctx, cmd.OrderID(), now)
	case order.Delivered:
		return h.transition(ctx, cmd.OrderID(), func(o *order.Order) error {
			return o.Deliver(now)
		})
	case order.Cancelled:
		return h.transition(ctx, cmd.OrderID(), func(o *order.Order) error {
			return o.Cancel(now)
		})
	case order.Failed:
		return h.transition(ctx, cmd.OrderID(), func(o *order.Order) error {
			return o.Fail(now)
		})
	default:
		return errs.NewValueIsInvalidError("status")
	}
}

// assign sets the drone reference on the order without touching the
// drone. Full reservation with capability checks goes through
// AssignMissionCommand; this path exists for operator corrections.
func (h *UpdateOrderStatusCommandHandler) assign(
	ctx context.Context,
	orderID kernel.UUID,
	droneID kernel.UUID,
	now time.Time,
) error {
	err := h.registry.WithOrderAndDrone(orderID, droneID, func(o *order.Order, _ *drone.Drone) error {
		return o.Assign(droneID, now)
	})
	if err != nil {
		return err
	}
	return h.persistOrder(ctx, orderID)
}

// transit moves the order to in_transit and launches the owning drone.
func (h *UpdateOrderStatusCommandHandler) transit(ctx context.Context, orderID kernel.UUID, now time.Time) error {
	var droneID *kernel.UUID
	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		droneID = o.Drone()
		return nil
	})
	if err != nil {
		return err
	}
	if droneID == nil {
		return errs.NewInvalidTransitionError("order", order.Pending.String(), order.InTransit.String())
	}

	err = h.registry.WithOrderAndDrone(orderID, *droneID, func(o *order.Order, d *drone.Drone) error {
		if transitErr := o.Transit(now); transitErr != nil {
			return transitErr
		}
		return d.Launch(now)
	})
	if err != nil {
		return err
	}

	if err = h.persistOrder(ctx, orderID); err != nil {
		return err
	}
	return h.persistDrone(ctx, *droneID)
}

func (h *UpdateOrderStatusCommandHandler) transition(
	ctx context.Context,
	orderID kernel.UUID,
	fn func(*order.Order) error,
) error {
	if err := h.registry.WithOrder(orderID, fn); err != nil {
		return err
	}
	return h.persistOrder(ctx, orderID)
}

func (h *UpdateOrderStatusCommandHandler) persistOrder(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		return uow.OrderRepository().Update(ctx, o)
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *UpdateOrderStatusCommandHandler) persistDrone(ctx context.Context, droneID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := h.registry.WithDrone(droneID, func(d *drone.Drone) error {
		return uow.DroneRepository().Update(ctx, d)
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
