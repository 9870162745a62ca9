package commands

import (
	"errors"
	"fmt"
	"strings"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

var (
	ErrCompleteMissionCommandIsNotConstructed = errors.New(
		"CompleteMissionCommand must be created via NewCompleteMissionCommand constructor",
	)
	ErrCodeIsRequired = errors.New("delivery code is required")
)

// CompleteMissionCommand represents an attempt to close out a delivery
// by presenting the order's delivery code, together with the flight
// figures the drone reported: the battery it drained and the distance
// it actually flew.
type CompleteMissionCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	code           string
	batteryUsedPct float64
	distanceKm     float64

	guard guard.ConstructorGuard
}

// NewCompleteMissionCommand creates a completion command. The code is
// only checked for presence here; matching happens against the stored
// code during handling.
func NewCompleteMissionCommand(
	orderID kernel.UUID,
	code string,
	batteryUsedPct float64,
	distanceKm float64,
) (CompleteMissionCommand, error) {
	completeCommand := CompleteMissionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		completeCommand.setOrderID(orderID),
		completeCommand.setCode(code),
		completeCommand.setBatteryUsedPct(batteryUsedPct),
		completeCommand.setDistanceKm(distanceKm),
	); err != nil {
		return CompleteMissionCommand{}, err
	}

	return completeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteMissionCommand) Validate() error {
	return c.guard.Validate(ErrCompleteMissionCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c CompleteMissionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Code returns the submitted delivery code.
func (c CompleteMissionCommand) Code() string {
	return c.code
}

// BatteryUsedPct returns the charge the drone reported draining.
func (c CompleteMissionCommand) BatteryUsedPct() float64 {
	return c.batteryUsedPct
}

// DistanceKm returns the distance the drone reported flying.
func (c CompleteMissionCommand) DistanceKm() float64 {
	return c.distanceKm
}

func (c *CompleteMissionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CompleteMissionCommand) setCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrCodeIsRequired
	}

	c.code = code
	return nil
}

func (c *CompleteMissionCommand) setBatteryUsedPct(batteryUsedPct float64) error {
	if batteryUsedPct < 0 || batteryUsedPct > 100 {
		return errs.NewValueIsOutOfRangeError("batteryUsedPct", batteryUsedPct, 0, 100)
	}

	c.batteryUsedPct = batteryUsedPct
	return nil
}

func (c *CompleteMissionCommand) setDistanceKm(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%v is not greater or equal to 0", distanceKm))
	}

	c.distanceKm = distanceKm
	return nil
}
