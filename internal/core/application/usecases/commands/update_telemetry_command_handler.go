package commands

import (
	"context"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/fleet"
	"fleetops/internal/core/ports"
	"fleetops/internal/pkg/clock"
	"fleetops/internal/telemetry"
)

// UpdateTelemetryCommandHandler ingests drone heartbeats. Each sample
// goes three ways: through the monitor for alerting, onto the drone
// aggregate for position and battery, and into the sample log.
type UpdateTelemetryCommandHandler struct {
	registry   *fleet.Registry
	monitor    *telemetry.Monitor
	uowFactory TelemetryUoWFactory
	clock      clock.Clock
}

// NewUpdateTelemetryCommandHandler creates a handler for telemetry ingestion.
func NewUpdateTelemetryCommandHandler(
	registry *fleet.Registry,
	monitor *telemetry.Monitor,
	uowFactory TelemetryUoWFactory,
	clk clock.Clock,
) UpdateTelemetryCommandHandler {
	return UpdateTelemetryCommandHandler{
		registry:   registry,
		monitor:    monitor,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes one telemetry sample and returns the alerts it
// raised, if any.
func (h *UpdateTelemetryCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateTelemetryCommand,
) ([]telemetry.Alert, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	err := h.registry.WithDrone(cmd.DroneID(), func(d *drone.Drone) error {
		// A drone that reports after going dark comes back Idle,
		// provided its lost mission was already failed and cleared.
		if d.Status() == drone.Offline && d.Mission() == nil {
			if reconnectErr := d.Reconnect(now); reconnectErr != nil {
				return reconnectErr
			}
		}
		return d.UpdateTelemetry(cmd.BatteryPct(), cmd.Position(), now)
	})
	if err != nil {
		return nil, err
	}

	alerts := h.monitor.Heartbeat(cmd.DroneID(), telemetry.Sample{
		BatteryPct:   cmd.BatteryPct(),
		Position:     cmd.Position(),
		SpeedMps:     cmd.SpeedMps(),
		TemperatureC: cmd.TemperatureC(),
	}, now)

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err = h.registry.WithDrone(cmd.DroneID(), func(d *drone.Drone) error {
		return uow.DroneRepository().Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	sample := ports.TelemetrySample{
		DroneID:      cmd.DroneID(),
		BatteryPct:   cmd.BatteryPct(),
		Position:     cmd.Position(),
		SpeedMps:     cmd.SpeedMps(),
		TemperatureC: cmd.TemperatureC(),
		At:           now,
	}
	if err = uow.TelemetryRepository().AddSample(ctx, sample); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return alerts, nil
}
