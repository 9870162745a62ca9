package commands

import (
	"context"
	"errors"
	"time"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
)

// ErrOrderNotDeliverable is returned when completion is attempted for an
// order that has no live mission.
var ErrOrderNotDeliverable = errors.New("order has no mission to complete")

// CompleteMissionCommandHandler closes out deliveries.
//
// The submitted code decides the outcome. A match delivers the order,
// completes the mission and returns the drone to idle with its charge
// drawn down and flight stats updated from the reported figures. A
// mismatch with attempts left changes nothing terminal and is reported
// back so the customer can retry. A locked or expired code fails the
// delivery: order failed, mission failed, drone released.
//
// Completion requires the order to be InTransit and the drone
// InProgress. An assigned order must be moved to in_transit (the drone
// launched) before its delivery can be closed out; attempts before
// that return ErrOrderNotDeliverable.
type CompleteMissionCommandHandler struct {
	registry   *fleet.Registry
	codes      CodeService
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
}

// NewCompleteMissionCommandHandler creates a handler for mission completion.
func NewCompleteMissionCommandHandler(
	registry *fleet.Registry,
	codes CodeService,
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
) CompleteMissionCommandHandler {
	return CompleteMissionCommandHandler{
		registry:   registry,
		codes:      codes,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes a completion attempt. The returned error is the code
// verification outcome when it is non-terminal; terminal outcomes also
// tear the delivery down before returning.
func (h *CompleteMissionCommandHandler) Handle(ctx context.Context, cmd CompleteMissionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	droneID, missionID, err := h.liveDelivery(cmd.OrderID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	verifyErr := h.codes.Verify(ctx, cmd.OrderID(), cmd.Code(), now)

	switch {
	case verifyErr == nil:
		return h.succeed(ctx, cmd, droneID, missionID, now)
	case errors.Is(verifyErr, deliverycode.ErrCodeLocked),
		errors.Is(verifyErr, deliverycode.ErrCodeExpired):
		if failErr := h.fail(ctx, cmd.OrderID(), droneID, missionID, now); failErr != nil {
			return failErr
		}
		return verifyErr
	default:
		// Mismatch with attempts left, or a code in the wrong state.
		return verifyErr
	}
}

// liveDelivery resolves the drone and mission currently serving the order.
func (h *CompleteMissionCommandHandler) liveDelivery(
	orderID kernel.UUID,
) (droneID, missionID kernel.UUID, err error) {
	err = h.registry.WithOrder(orderID, func(o *order.Order) error {
		if o.Drone() == nil || o.Status().IsTerminal() {
			return ErrOrderNotDeliverable
		}
		droneID = *o.Drone()
		return nil
	})
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	err = h.registry.WithDrone(droneID, func(d *drone.Drone) error {
		if d.Mission() == nil {
			return ErrOrderNotDeliverable
		}
		missionID = *d.Mission()
		return nil
	})
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return droneID, missionID, nil
}

func (h *CompleteMissionCommandHandler) succeed(
	ctx context.Context,
	cmd CompleteMissionCommand,
	droneID, missionID kernel.UUID,
	now time.Time,
) error {
	orderID := cmd.OrderID()
	err := h.registry.WithDelivery(orderID, droneID, missionID,
		func(o *order.Order, d *drone.Drone, m *mission.Mission) error {
			// Check both transitions before mutating anything so a
			// refused completion leaves all three aggregates untouched.
			if o.Status() != order.InTransit || d.Status() != drone.InProgress {
				return ErrOrderNotDeliverable
			}
			if completeErr := m.Complete(cmd.BatteryUsedPct(), cmd.DistanceKm(), now); completeErr != nil {
				return completeErr
			}
			if deliverErr := o.Deliver(now); deliverErr != nil {
				return deliverErr
			}
			return d.CompleteMission(cmd.BatteryUsedPct(), cmd.DistanceKm(), now)
		})
	if err != nil {
		return err
	}

	if err = h.codes.CompleteDelivery(ctx, orderID, true, now); err != nil {
		return err
	}

	return h.teardown(ctx, orderID, droneID, missionID)
}

func (h *CompleteMissionCommandHandler) fail(
	ctx context.Context,
	orderID, droneID, missionID kernel.UUID,
	now time.Time,
) error {
	err := h.registry.WithDelivery(orderID, droneID, missionID,
		func(o *order.Order, d *drone.Drone, m *mission.Mission) error {
			if failErr := m.Fail(now); failErr != nil {
				return failErr
			}
			if failErr := o.Fail(now); failErr != nil {
				return failErr
			}
			return d.AbortMission(now)
		})
	if err != nil {
		return err
	}

	if err = h.codes.CompleteDelivery(ctx, orderID, false, now); err != nil {
		return err
	}

	return h.teardown(ctx, orderID, droneID, missionID)
}

// teardown mirrors the final aggregate states and drops the mission from
// the live table.
func (h *CompleteMissionCommandHandler) teardown(
	ctx context.Context,
	orderID, droneID, missionID kernel.UUID,
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

	err = h.registry.WithMission(missionID, func(m *mission.Mission) error {
		return uow.MissionRepository().Update(ctx, m)
	})
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.registry.RemoveMission(missionID)
	return nil
}
