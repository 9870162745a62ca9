package commands

import (
	"context"
	"errors"
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
)

// CancelOrderCommandHandler cancels orders. A pending order is simply
// cancelled; an assigned order also fails its mission, releases the
// drone back to idle and archives the delivery code. Orders already in
// transit cannot be cancelled.
type CancelOrderCommandHandler struct {
	registry   *fleet.Registry
	codes      CodeService
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	registry *fleet.Registry,
	codes CodeService,
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		registry:   registry,
		codes:      codes,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()

	var droneID *kernel.UUID
	err := h.registry.WithOrder(cmd.OrderID(), func(o *order.Order) error {
		droneID = o.Drone()
		return nil
	})
	if err != nil {
		return err
	}

	if droneID == nil {
		return h.cancelPending(ctx, cmd.OrderID(), now)
	}
	return h.cancelAssigned(ctx, cmd.OrderID(), *droneID, now)
}

func (h *CancelOrderCommandHandler) cancelPending(ctx context.Context, orderID kernel.UUID, now time.Time) error {
	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		return o.Cancel(now)
	})
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err = h.registry.WithOrder(orderID, func(o *order.Order) error {
		return uow.OrderRepository().Update(ctx, o)
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// cancelAssigned tears down the whole reservation: order cancelled,
// mission failed, drone released, code archived FAILED.
func (h *CancelOrderCommandHandler) cancelAssigned(
	ctx context.Context,
	orderID, droneID kernel.UUID,
	now time.Time,
) error {
	var missionID *kernel.UUID
	err := h.registry.WithDrone(droneID, func(d *drone.Drone) error {
		missionID = d.Mission()
		return nil
	})
	if err != nil {
		return err
	}
	if missionID == nil {
		// The drone already dropped the mission; cancel the order alone.
		err = h.registry.WithOrder(orderID, func(o *order.Order) error {
			return o.Cancel(now)
		})
		if err != nil {
			return err
		}
		return h.mirror(ctx, orderID, droneID, nil)
	}

	err = h.registry.WithDelivery(orderID, droneID, *missionID,
		func(o *order.Order, d *drone.Drone, m *mission.Mission) error {
			if cancelErr := o.Cancel(now); cancelErr != nil {
				return cancelErr
			}
			if failErr := m.Fail(now); failErr != nil {
				return failErr
			}
			return d.AbortMission(now)
		})
	if err != nil {
		return err
	}

	err = h.codes.CompleteDelivery(ctx, orderID, false, now)
	if err != nil && !errors.Is(err, fleet.ErrCodeNotFound) {
		return err
	}

	if err = h.mirror(ctx, orderID, droneID, missionID); err != nil {
		return err
	}

	h.registry.RemoveMission(*missionID)
	return nil
}

func (h *CancelOrderCommandHandler) mirror(
	ctx context.Context,
	orderID, droneID kernel.UUID,
	missionID *kernel.UUID,
) error {
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

	err = h.registry.WithDrone(droneID, func(d *drone.Drone) error {
		return uow.DroneRepository().Update(ctx, d)
	})
	if err != nil {
		return err
	}

	if missionID != nil {
		err = h.registry.WithMission(*missionID, func(m *mission.Mission) error {
			return uow.MissionRepository().Update(ctx, m)
		})
		if err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
