package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
	"fleetops/internal/telemetry"
)

// FailLostMissionsCommandHandler fails deliveries whose drone stopped
// reporting. A drone counts as lost once the monitor scores it OFFLINE,
// thirty seconds after its last heartbeat. The mission and order are
// failed immediately, the code is archived FAILED and the drone is left
// Offline with its mission reference cleared so a later heartbeat can
// bring it back as Idle.
type FailLostMissionsCommandHandler struct {
	registry   *fleet.Registry
	monitor    *telemetry.Monitor
	codes      CodeService
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

// NewFailLostMissionsCommandHandler creates a handler for the lost-drone sweep.
func NewFailLostMissionsCommandHandler(
	registry *fleet.Registry,
	monitor *telemetry.Monitor,
	codes CodeService,
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
	logger *slog.Logger,
) FailLostMissionsCommandHandler {
	return FailLostMissionsCommandHandler{
		registry:   registry,
		monitor:    monitor,
		codes:      codes,
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "lost-mission-sweep"),
	}
}

// Handle runs one sweep and returns the orders whose deliveries were
// failed. Per-drone errors are logged and do not stop the sweep.
func (h *FailLostMissionsCommandHandler) Handle(
	ctx context.Context,
	_ FailLostMissionsCommand,
) ([]kernel.UUID, error) {
	now := h.clock.Now()

	// Record a CONNECTION_LOST alert for every drone that went silent
	// past the offline window before judging the fleet.
	h.monitor.Sweep(now)

	var failedOrders []kernel.UUID
	for _, droneID := range h.registry.DroneIDs() {
		health, err := h.monitor.Health(droneID, now)
		if err != nil {
			// The monitor has no track for this drone, typically after
			// a restart before its first heartbeat. Grade it on the
			// persisted last-seen time instead.
			health, err = h.healthFromLastSeen(droneID, now)
			if err != nil {
				continue
			}
		}
		if health != telemetry.Offline {
			continue
		}

		orderID, handled, err := h.failLostDrone(ctx, droneID, now)
		if err != nil {
			h.logger.Error("failed to tear down lost delivery",
				"droneId", droneID.String(), "error", err)
			continue
		}
		if handled {
			failedOrders = append(failedOrders, orderID)
		}
	}

	return failedOrders, nil
}

// healthFromLastSeen grades an untracked drone by the last-seen time
// its aggregate carries.
func (h *FailLostMissionsCommandHandler) healthFromLastSeen(
	droneID kernel.UUID,
	now time.Time,
) (telemetry.HealthStatus, error) {
	var lastSeen time.Time
	err := h.registry.WithDrone(droneID, func(d *drone.Drone) error {
		lastSeen = d.LastSeenAt()
		return nil
	})
	if err != nil {
		return telemetry.Offline, err
	}
	return telemetry.HealthFor(now.Sub(lastSeen)), nil
}

// failLostDrone marks the drone offline and, when it owned a mission,
// fails the delivery. Returns the failed order ID when one was torn down.
func (h *FailLostMissionsCommandHandler) failLostDrone(
	ctx context.Context,
	droneID kernel.UUID,
	now time.Time,
) (kernel.UUID, bool, error) {
	var missionID *kernel.UUID
	err := h.registry.WithDrone(droneID, func(d *drone.Drone) error {
		missionID = d.Mission()
		if d.Status() == drone.Offline {
			return nil
		}
		return d.MarkOffline()
	})
	if err != nil {
		return kernel.UUID{}, false, err
	}

	if missionID == nil {
		return kernel.UUID{}, false, h.mirrorDrone(ctx, droneID)
	}

	var orderID kernel.UUID
	err = h.registry.WithMission(*missionID, func(m *mission.Mission) error {
		orderID = m.Order()
		return nil
	})
	if err != nil {
		return kernel.UUID{}, false, err
	}

	err = h.registry.WithDelivery(orderID, droneID, *missionID,
		func(o *order.Order, d *drone.Drone, m *mission.Mission) error {
			if failErr := m.Fail(now); failErr != nil {
				return failErr
			}
			if failErr := o.Fail(now); failErr != nil {
				return failErr
			}
			d.ClearMission()
			return nil
		})
	if err != nil {
		return kernel.UUID{}, false, err
	}

	err = h.codes.CompleteDelivery(ctx, orderID, false, now)
	if err != nil && !errors.Is(err, fleet.ErrCodeNotFound) {
		return kernel.UUID{}, false, err
	}

	if err = h.mirrorDelivery(ctx, orderID, droneID, *missionID); err != nil {
		return kernel.UUID{}, false, err
	}

	h.registry.RemoveMission(*missionID)
	h.logger.Warn("delivery failed, drone connection lost",
		"droneId", droneID.String(), "orderId", orderID.String())
	return orderID, true, nil
}

func (h *FailLostMissionsCommandHandler) mirrorDrone(ctx context.Context, droneID kernel.UUID) error {
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

func (h *FailLostMissionsCommandHandler) mirrorDelivery(
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
