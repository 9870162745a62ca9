package commands

import (
	"errors"
	"strings"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/guard"
)

var (
	ErrRegisterDroneCommandIsNotConstructed = errors.New(
		"RegisterDroneCommand must be created via NewRegisterDroneCommand constructor",
	)
	ErrDroneNameIsRequired = errors.New("drone name is required")
)

// RegisterDroneCommand represents a request to add a drone to the fleet.
// The drone joins in "idle" status at its home position.
type RegisterDroneCommand struct { //nolint:recvcheck //using for validation
	droneID      kernel.UUID
	name         string
	maxPayloadKg float64
	batteryPct   float64
	home         kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRegisterDroneCommand creates a command to register a fleet drone.
// Payload and battery ranges are enforced by the drone aggregate; the
// command only checks presence and coordinate validity.
func NewRegisterDroneCommand(
	droneID kernel.UUID,
	name string,
	maxPayloadKg float64,
	batteryPct float64,
	home kernel.GeoPoint,
) (RegisterDroneCommand, error) {
	droneCommand := RegisterDroneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		droneCommand.setDroneID(droneID),
		droneCommand.setName(name),
		droneCommand.setHome(home),
	); err != nil {
		return RegisterDroneCommand{}, err
	}

	droneCommand.maxPayloadKg = maxPayloadKg
	droneCommand.batteryPct = batteryPct
	return droneCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterDroneCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDroneCommandIsNotConstructed)
}

// DroneID returns the unique identifier for the drone.
func (c RegisterDroneCommand) DroneID() kernel.UUID {
	return c.droneID
}

// Name returns the drone's call sign.
func (c RegisterDroneCommand) Name() string {
	return c.name
}

// MaxPayloadKg returns the drone's payload capacity.
func (c RegisterDroneCommand) MaxPayloadKg() float64 {
	return c.maxPayloadKg
}

// BatteryPct returns the drone's initial battery level.
func (c RegisterDroneCommand) BatteryPct() float64 {
	return c.batteryPct
}

// Home returns the drone's starting position.
func (c RegisterDroneCommand) Home() kernel.GeoPoint {
	return c.home
}

func (c *RegisterDroneCommand) setDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.droneID = droneID
	return nil
}

func (c *RegisterDroneCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrDroneNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterDroneCommand) setHome(home kernel.GeoPoint) error {
	if err := home.Validate(); err != nil {
		return err
	}

	c.home = home
	return nil
}
