package commands

import (
	"errors"
	"fmt"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

var ErrUpdateTelemetryCommandIsNotConstructed = errors.New(
	"UpdateTelemetryCommand must be created via NewUpdateTelemetryCommand constructor",
)

// UpdateTelemetryCommand carries one telemetry sample from a drone:
// battery level, position, ground speed and motor temperature.
type UpdateTelemetryCommand struct { //nolint:recvcheck //using for validation
	droneID      kernel.UUID
	batteryPct   float64
	position     kernel.GeoPoint
	speedMps     float64
	temperatureC float64

	guard guard.ConstructorGuard
}

// NewUpdateTelemetryCommand creates a telemetry ingestion command.
// Battery must be within 0..100 and speed non-negative; temperature is
// taken as reported, high values are the monitor's business.
func NewUpdateTelemetryCommand(
	droneID kernel.UUID,
	batteryPct float64,
	position kernel.GeoPoint,
	speedMps float64,
	temperatureC float64,
) (UpdateTelemetryCommand, error) {
	telemetryCommand := UpdateTelemetryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		telemetryCommand.setDroneID(droneID),
		telemetryCommand.setBatteryPct(batteryPct),
		telemetryCommand.setPosition(position),
		telemetryCommand.setSpeedMps(speedMps),
	); err != nil {
		return UpdateTelemetryCommand{}, err
	}

	telemetryCommand.temperatureC = temperatureC
	return telemetryCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateTelemetryCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTelemetryCommandIsNotConstructed)
}

// DroneID returns the reporting drone.
func (c UpdateTelemetryCommand) DroneID() kernel.UUID {
	return c.droneID
}

// BatteryPct returns the reported battery level.
func (c UpdateTelemetryCommand) BatteryPct() float64 {
	return c.batteryPct
}

// Position returns the reported position.
func (c UpdateTelemetryCommand) Position() kernel.GeoPoint {
	return c.position
}

// SpeedMps returns the reported ground speed.
func (c UpdateTelemetryCommand) SpeedMps() float64 {
	return c.speedMps
}

// TemperatureC returns the reported motor temperature.
func (c UpdateTelemetryCommand) TemperatureC() float64 {
	return c.temperatureC
}

func (c *UpdateTelemetryCommand) setDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.droneID = droneID
	return nil
}

func (c *UpdateTelemetryCommand) setBatteryPct(batteryPct float64) error {
	if batteryPct < drone.BatteryMinPct || batteryPct > drone.BatteryMaxPct {
		return errs.NewValueIsOutOfRangeError(
			"batteryPct", batteryPct, drone.BatteryMinPct, drone.BatteryMaxPct,
		)
	}

	c.batteryPct = batteryPct
	return nil
}

func (c *UpdateTelemetryCommand) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	c.position = position
	return nil
}

func (c *UpdateTelemetryCommand) setSpeedMps(speedMps float64) error {
	if speedMps < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"speedMps", fmt.Errorf("%v is not greater or equal to 0", speedMps),
		)
	}

	c.speedMps = speedMps
	return nil
}
