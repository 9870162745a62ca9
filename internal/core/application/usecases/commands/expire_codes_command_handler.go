package commands

import (
	"context"
	"log/slog"
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
)

// CodeArchiver sweeps expired delivery codes into the archive.
// Satisfied by the codes manager.
type CodeArchiver interface {
	// ArchiveExpired archives every active code past its TTL and
	// returns the order IDs whose codes were archived.
	ArchiveExpired(ctx context.Context, now time.Time) ([]kernel.UUID, error)
}

// ExpireCodesCommandHandler archives expired delivery codes and fails
// the deliveries they were protecting. A code expires only while its
// order is still undelivered, so expiry is terminal for the whole
// order, mission and drone reservation.
type ExpireCodesCommandHandler struct {
	registry   *fleet.Registry
	archiver   CodeArchiver
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

// NewExpireCodesCommandHandler creates a handler for the expiry sweep.
func NewExpireCodesCommandHandler(
	registry *fleet.Registry,
	archiver CodeArchiver,
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
	logger *slog.Logger,
) ExpireCodesCommandHandler {
	return ExpireCodesCommandHandler{
		registry:   registry,
		archiver:   archiver,
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "code-expiry-sweep"),
	}
}

// Handle runs one sweep and returns the orders whose codes expired.
// Per-order teardown errors are logged and do not stop the sweep.
func (h *ExpireCodesCommandHandler) Handle(
	ctx context.Context,
	_ ExpireCodesCommand,
) ([]kernel.UUID, error) {
	now := h.clock.Now()

	expired, err := h.archiver.ArchiveExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, orderID := range expired {
		if err := h.failDelivery(ctx, orderID, now); err != nil {
			h.logger.Error("failed to tear down expired delivery",
				"orderId", orderID.String(), "error", err)
		}
	}

	return expired, nil
}

// failDelivery marks the order failed and releases its reservation.
// An active code implies a live reservation, but the delivery may have
// raced to completion between the archive and this teardown; anything
// already terminal is left alone.
func (h *ExpireCodesCommandHandler) failDelivery(
	ctx context.Context,
	orderID kernel.UUID,
	now time.Time,
) error {
	var (
		droneID  *kernel.UUID
		terminal bool
	)
	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		droneID = o.Drone()
		terminal = o.Status().IsTerminal()
		return nil
	})
	if err != nil {
		return err
	}
	if terminal {
		return nil
	}

	if droneID == nil {
		return h.failOrderAlone(ctx, orderID, now)
	}

	var missionID *kernel.UUID
	err = h.registry.WithDrone(*droneID, func(d *drone.Drone) error {
		missionID = d.Mission()
		return nil
	})
	if err != nil {
		return err
	}
	if missionID == nil {
		return h.failOrderAlone(ctx, orderID, now)
	}

	err = h.registry.WithDelivery(orderID, *droneID, *missionID,
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

	if err = h.mirrorDelivery(ctx, orderID, *droneID, *missionID); err != nil {
		return err
	}

	h.registry.RemoveMission(*missionID)
	h.logger.Warn("delivery failed, code expired",
		"orderId", orderID.String(), "droneId", droneID.String())
	return nil
}

func (h *ExpireCodesCommandHandler) failOrderAlone(
	ctx context.Context,
	orderID kernel.UUID,
	now time.Time,
) error {
	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		return o.Fail(now)
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

func (h *ExpireCodesCommandHandler) mirrorDelivery(
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

	return uow.Commit(ctx)
}
