package mission

import (
	"errors"
	"fmt"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

// ErrMissionIsNotConstructed is returned when using an improperly
// initialized Mission.
var ErrMissionIsNotConstructed = errors.New("Mission must be created via NewMission constructor")

// Mission represents one delivery flight: the pairing of an order with
// a drone from assignment until the payload is handed over or the
// flight is aborted.
//
// A mission is live (InProgress) from the moment it is created and
// ends exactly once, as Completed or Failed. The distance starts as
// the planned estimate from the drone's position and the order's
// destination; a successful completion overwrites it with the flown
// distance reported by the drone.
type Mission struct {
	// id uniquely identifies the mission
	id kernel.UUID
	// orderID is the order being delivered
	orderID kernel.UUID
	// droneID is the drone flying the mission
	droneID kernel.UUID
	// status is the mission state
	status Status
	// distanceKm is the planned flight distance until completion,
	// then the actual flown distance
	distanceKm float64
	// batteryUsedPct is the charge consumed by the flight, reported on
	// completion (nil until then)
	batteryUsedPct *float64
	// startedAt is when the mission was created
	startedAt time.Time
	// endedAt is when the mission reached a terminal state (nil while live)
	endedAt *time.Time
	// guard ensures the mission was properly constructed
	guard guard.ConstructorGuard
}

// NewMission creates a live mission pairing an order with a drone.
//
// Parameters:
//   - id: Unique identifier for the mission
//   - orderID: The order being delivered
//   - droneID: The drone flying the mission
//   - distanceKm: Planned flight distance, must not be negative
//   - now: Assignment timestamp
//
// The mission starts in InProgress status with no end time.
func NewMission(
	id kernel.UUID,
	orderID kernel.UUID,
	droneID kernel.UUID,
	distanceKm float64,
	now time.Time,
) (*Mission, error) {
	m := &Mission{
		status:    InProgress,
		startedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setOrderID(orderID),
		m.setDroneID(droneID),
		m.setDistanceKm(distanceKm),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RestoreMission reconstructs a Mission from persisted state. Terminal
// missions must carry an end time and live missions must not; battery
// usage is only ever recorded on a completed mission.
func RestoreMission(
	id kernel.UUID,
	orderID kernel.UUID,
	droneID kernel.UUID,
	status Status,
	distanceKm float64,
	batteryUsedPct *float64,
	startedAt time.Time,
	endedAt *time.Time,
) (*Mission, error) {
	m := &Mission{
		startedAt: startedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setOrderID(orderID),
		m.setDroneID(droneID),
		m.setDistanceKm(distanceKm),
		m.setStatus(status),
		m.setEndedAt(endedAt),
		m.setBatteryUsedPct(batteryUsedPct),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks if the Mission was properly constructed.
func (m *Mission) Validate() error {
	if m == nil {
		return ErrMissionIsNotConstructed
	}
	return m.guard.Validate(ErrMissionIsNotConstructed)
}

// IsEqual compares two missions by their unique identifiers.
func (m *Mission) IsEqual(other *Mission) bool {
	if other == nil {
		return false
	}
	return m.id.IsEqual(other.id)
}

// ID returns the mission's unique identifier.
func (m *Mission) ID() kernel.UUID {
	return m.id
}

// Order returns the delivered order's ID.
func (m *Mission) Order() kernel.UUID {
	return m.orderID
}

// Drone returns the flying drone's ID.
func (m *Mission) Drone() kernel.UUID {
	return m.droneID
}

// Status returns the mission state.
func (m *Mission) Status() Status {
	return m.status
}

// DistanceKm returns the flight distance: the planned estimate while
// the mission is live, the flown distance once it is completed.
func (m *Mission) DistanceKm() float64 {
	return m.distanceKm
}

// BatteryUsedPct returns the charge consumed by the flight, or nil if
// the mission has not completed.
func (m *Mission) BatteryUsedPct() *float64 {
	return m.batteryUsedPct
}

// StartedAt returns when the mission was created.
func (m *Mission) StartedAt() time.Time {
	return m.startedAt
}

// EndedAt returns when the mission ended, or nil while it is live.
func (m *Mission) EndedAt() *time.Time {
	return m.endedAt
}

// Complete ends the mission successfully, recording the figures the
// drone reported for the flight: the battery it drained and the
// distance it actually flew. The mission must be live.
func (m *Mission) Complete(batteryUsedPct, distanceKm float64, now time.Time) error {
	if batteryUsedPct < 0 || batteryUsedPct > 100 {
		return errs.NewValueIsInvalidErrorWithCause("batteryUsedPct",
			fmt.Errorf("%v is not in range [0, 100]", batteryUsedPct))
	}

	newStatus, err := m.status.Complete()
	if err != nil {
		return err
	}
	if err := m.setDistanceKm(distanceKm); err != nil {
		return err
	}

	m.status = newStatus
	m.batteryUsedPct = &batteryUsedPct
	m.endedAt = &now
	return nil
}

// Fail ends the mission unsuccessfully. The mission must be live.
func (m *Mission) Fail(now time.Time) error {
	newStatus, err := m.status.Fail()
	if err != nil {
		return err
	}

	m.status = newStatus
	m.endedAt = &now
	return nil
}

func (m *Mission) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Mission) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	m.orderID = orderID
	return nil
}

func (m *Mission) setDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}
	m.droneID = droneID
	return nil
}

func (m *Mission) setDistanceKm(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%v is not greater or equal to 0", distanceKm))
	}
	m.distanceKm = distanceKm
	return nil
}

// setStatus is used by RestoreMission only.
func (m *Mission) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	m.status = status
	return nil
}

// setEndedAt is used by RestoreMission only. It enforces consistency
// between the status and the end time.
func (m *Mission) setEndedAt(endedAt *time.Time) error {
	if m.status.IsTerminal() && endedAt == nil {
		return errs.NewValueIsRequiredError("endedAt")
	}
	if !m.status.IsTerminal() && endedAt != nil {
		return errs.NewValueIsInvalidError("endedAt on live mission")
	}

	m.endedAt = endedAt
	return nil
}

// setBatteryUsedPct is used by RestoreMission only. It must run after
// setStatus.
func (m *Mission) setBatteryUsedPct(batteryUsedPct *float64) error {
	if batteryUsedPct == nil {
		return nil
	}
	if m.status != Completed {
		return errs.NewValueIsInvalidError("batteryUsedPct on a mission that did not complete")
	}
	if *batteryUsedPct < 0 || *batteryUsedPct > 100 {
		return errs.NewValueIsInvalidErrorWithCause("batteryUsedPct",
			fmt.Errorf("%v is not in range [0, 100]", *batteryUsedPct))
	}

	m.batteryUsedPct = batteryUsedPct
	return nil
}
