package commands

import (
	"context"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
)

// RegisterDroneCommandHandler handles fleet drone registration.
// Call signs are unique across the fleet; registration is refused when
// the name is already taken.
type RegisterDroneCommandHandler struct {
	registry   *fleet.Registry
	uowFactory DroneUoWFactory
	clock      clock.Clock
}

// NewRegisterDroneCommandHandler creates a handler for drone registration.
func NewRegisterDroneCommandHandler(
	registry *fleet.Registry,
	uowFactory DroneUoWFactory,
	clk clock.Clock,
) RegisterDroneCommandHandler {
	return RegisterDroneCommandHandler{
		registry:   registry,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the drone registration command.
func (h *RegisterDroneCommandHandler) Handle(ctx context.Context, cmd RegisterDroneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newDrone, err := drone.NewDrone(
		cmd.DroneID(),
		cmd.Name(),
		cmd.MaxPayloadKg(),
		cmd.BatteryPct(),
		cmd.Home(),
		h.clock.Now(),
	)
	if err != nil {
		return err
	}

	// The registry enforces call-sign uniqueness, so it goes first.
	if err = h.registry.AddDrone(newDrone); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DroneRepository().Add(ctx, newDrone); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
