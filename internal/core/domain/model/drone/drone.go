package drone

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

const (
	// DefaultMaxPayloadKg is the payload capacity drones register with
	// unless the hardware profile says otherwise.
	DefaultMaxPayloadKg = 5.0

	// MinAssignBatteryPct is the charge floor for accepting a mission.
	// A drone below this level stays idle until it recharges.
	MinAssignBatteryPct = 50.0

	// BatteryMinPct and BatteryMaxPct bound the battery gauge.
	BatteryMinPct = 0.0
	BatteryMaxPct = 100.0
)

// Domain errors for drone operations.
var (
	// ErrNameIsRequired is returned when attempting to register a drone without a call sign.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDroneIsNotConstructed is returned when using an improperly initialized Drone.
	ErrDroneIsNotConstructed = errors.New("Drone must be created via NewDrone constructor")
	// ErrBatteryTooLow is returned when a mission is assigned to a drone below the charge floor.
	ErrBatteryTooLow = errors.New("battery below minimum for mission assignment")
	// ErrPayloadTooHeavy is returned when an order exceeds the drone's payload capacity.
	ErrPayloadTooHeavy = errors.New("payload exceeds drone capacity")
)

// Drone represents a delivery drone in the fleet.
// It is an aggregate root that manages drone identity, availability and
// flight statistics.
//
// Key responsibilities:
//   - Managing drone identity (ID, call sign, payload capacity)
//   - Enforcing assignment rules (idle status, charge floor, payload limit)
//   - Tracking battery, position and last-seen time from telemetry
//   - Accumulating flight statistics when missions complete
//
// Business rules:
//   - Drone must have a valid UUID, non-empty call sign and positive payload capacity
//   - Only an Idle drone with battery at or above MinAssignBatteryPct takes missions
//   - A mission is referenced exactly while the drone is Assigned or InProgress
type Drone struct {
	// id uniquely identifies the drone
	id kernel.UUID
	// name is the drone's call sign, e.g. "DRONE_001"
	name string
	// maxPayloadKg is the heaviest payload this airframe can lift
	maxPayloadKg float64
	// batteryPct is the last reported charge level in percent
	batteryPct float64
	// position is the last reported geographic position
	position kernel.GeoPoint
	// status is the current operational state
	status Status
	// missionID is the active mission (nil when none)
	missionID *kernel.UUID
	// lastSeenAt is the time of the last telemetry heartbeat
	lastSeenAt time.Time
	// totalFlights counts completed missions
	totalFlights int
	// totalDistanceKm accumulates flown distance over completed missions
	totalDistanceKm float64
	// guard ensures the drone was properly constructed
	guard guard.ConstructorGuard
}

// NewDrone registers a new drone with the specified parameters.
// This is the only way to create a valid Drone instance.
//
// Parameters:
//   - id: Unique identifier for the drone (must be valid UUID)
//   - name: Call sign (must be non-empty)
//   - maxPayloadKg: Payload capacity (must be positive)
//   - batteryPct: Initial charge level in [0, 100]
//   - position: Home pad coordinates (must be valid)
//   - now: Registration timestamp, recorded as the first heartbeat
//
// Returns:
//   - *Drone: A fully initialized drone in Idle status
//   - error: Validation error if any parameter is invalid
func NewDrone(
	id kernel.UUID,
	name string,
	maxPayloadKg float64,
	batteryPct float64,
	position kernel.GeoPoint,
	now time.Time,
) (*Drone, error) {
	d := &Drone{
		status:     Idle,
		lastSeenAt: now,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setMaxPayloadKg(maxPayloadKg),
		d.setBatteryPct(batteryPct),
		d.setPosition(position),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDrone reconstructs a Drone aggregate from persistent storage,
// including its status, active mission reference and flight statistics.
// All fields are validated so corrupt rows cannot become live aggregates.
func RestoreDrone(
	id kernel.UUID,
	name string,
	maxPayloadKg float64,
	batteryPct float64,
	position kernel.GeoPoint,
	status Status,
	missionID *kernel.UUID,
	lastSeenAt time.Time,
	totalFlights int,
	totalDistanceKm float64,
) (*Drone, error) {
	d := &Drone{
		lastSeenAt: lastSeenAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setMaxPayloadKg(maxPayloadKg),
		d.setBatteryPct(batteryPct),
		d.setPosition(position),
		d.setStatus(status),
		d.setMissionID(missionID),
		d.setStats(totalFlights, totalDistanceKm),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks if the Drone was properly constructed.
// The zero value of Drone is invalid and will fail this validation.
func (d *Drone) Validate() error {
	if d == nil {
		return ErrDroneIsNotConstructed
	}
	return d.guard.Validate(ErrDroneIsNotConstructed)
}

// IsEqual compares two drones by their unique identifiers.
func (d *Drone) IsEqual(other *Drone) bool {
	if other == nil {
		return false
	}
	return d.id.IsEqual(other.id)
}

// ID returns the drone's unique identifier.
func (d *Drone) ID() kernel.UUID {
	return d.id
}

// Name returns the drone's call sign.
func (d *Drone) Name() string {
	return d.name
}

// MaxPayloadKg returns the drone's payload capacity.
func (d *Drone) MaxPayloadKg() float64 {
	return d.maxPayloadKg
}

// BatteryPct returns the last reported charge level.
func (d *Drone) BatteryPct() float64 {
	return d.batteryPct
}

// Position returns the last reported geographic position.
func (d *Drone) Position() kernel.GeoPoint {
	return d.position
}

// Status returns the current operational state.
func (d *Drone) Status() Status {
	return d.status
}

// Mission returns the active mission's ID, or nil when none.
func (d *Drone) Mission() *kernel.UUID {
	return d.missionID
}

// LastSeenAt returns the time of the last telemetry heartbeat.
func (d *Drone) LastSeenAt() time.Time {
	return d.lastSeenAt
}

// TotalFlights returns the number of completed missions.
func (d *Drone) TotalFlights() int {
	return d.totalFlights
}

// TotalDistanceKm returns the accumulated flown distance.
func (d *Drone) TotalDistanceKm() float64 {
	return d.totalDistanceKm
}

// CanCarry reports whether a payload of the given weight fits this
// drone's capacity.
func (d *Drone) CanCarry(weightKg float64) bool {
	return weightKg > 0 && weightKg <= d.maxPayloadKg
}

// IsAvailable reports whether the drone can take a mission right now:
// Idle status and battery at or above the charge floor.
func (d *Drone) IsAvailable() bool {
	return d.status == Idle && d.batteryPct >= MinAssignBatteryPct
}

// Assign reserves a mission on the drone.
//
// Business rules enforced:
//   - The mission ID must be valid
//   - The drone must be Idle
//   - Battery must be at or above MinAssignBatteryPct
//   - The payload must not exceed the drone's capacity
//
// After successful assignment the drone's status is Assigned and
// Mission() returns the mission ID.
func (d *Drone) Assign(missionID kernel.UUID, payloadKg float64, now time.Time) error {
	if err := missionID.Validate(); err != nil {
		return err
	}
	if !d.CanCarry(payloadKg) {
		return ErrPayloadTooHeavy
	}
	if d.batteryPct < MinAssignBatteryPct {
		return ErrBatteryTooLow
	}

	newStatus, err := d.status.Assign()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.missionID = &missionID
	d.lastSeenAt = now
	return nil
}

// Launch starts the assigned mission. The drone must be Assigned.
func (d *Drone) Launch(now time.Time) error {
	newStatus, err := d.status.Launch()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.lastSeenAt = now
	return nil
}

// CompleteMission ends the active flight successfully with the figures
// the drone reported: the battery it drained and the distance it flew.
// The drone returns to Idle, its charge is drawn down by the reported
// usage (floored at empty), its mission reference is cleared and the
// flight counters are updated.
func (d *Drone) CompleteMission(batteryUsedPct, distanceKm float64, now time.Time) error {
	if d.status != InProgress {
		return errs.NewInvalidTransitionError("drone", d.status.String(), Idle.String())
	}
	if batteryUsedPct < 0 || batteryUsedPct > 100 {
		return errs.NewValueIsOutOfRangeError("batteryUsedPct", batteryUsedPct, 0, 100)
	}
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%v is not greater or equal to 0", distanceKm))
	}

	d.status = Idle
	d.missionID = nil
	d.batteryPct = max(d.batteryPct-batteryUsedPct, BatteryMinPct)
	d.totalFlights++
	d.totalDistanceKm += distanceKm
	d.lastSeenAt = now
	return nil
}

// AbortMission releases the drone from its mission without counting a
// completed flight. Used when an order is cancelled before launch or a
// mission fails. The drone must be Assigned or InProgress.
func (d *Drone) AbortMission(now time.Time) error {
	newStatus, err := d.status.Release()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.missionID = nil
	d.lastSeenAt = now
	return nil
}

// UpdateTelemetry records a heartbeat: battery level, current position
// and the time the sample arrived.
func (d *Drone) UpdateTelemetry(batteryPct float64, position kernel.GeoPoint, now time.Time) error {
	if err := errors.Join(
		d.setBatteryPct(batteryPct),
		d.setPosition(position),
	); err != nil {
		return err
	}

	d.lastSeenAt = now
	return nil
}

// EnterMaintenance takes the drone out of the dispatch pool for
// servicing. The drone must be Idle.
func (d *Drone) EnterMaintenance(now time.Time) error {
	newStatus, err := d.status.EnterMaintenance()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.lastSeenAt = now
	return nil
}

// ExitMaintenance returns a serviced drone to the dispatch pool.
func (d *Drone) ExitMaintenance(now time.Time) error {
	newStatus, err := d.status.ExitMaintenance()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.lastSeenAt = now
	return nil
}

// MarkOffline records a lost telemetry link. Any active mission keeps
// its reference so the dispatcher can fail it explicitly.
func (d *Drone) MarkOffline() error {
	newStatus, err := d.status.Disconnect()
	if err != nil {
		return err
	}

	d.status = newStatus
	return nil
}

// Reconnect brings an Offline drone back as Idle. The mission
// reference must already be cleared; a drone cannot resume a flight it
// went dark on.
func (d *Drone) Reconnect(now time.Time) error {
	if d.missionID != nil {
		return errs.NewValueIsInvalidError("missionId must be cleared before reconnect")
	}

	newStatus, err := d.status.Reconnect()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.lastSeenAt = now
	return nil
}

// ClearMission drops the mission reference without touching status.
// Used when failing a mission on a drone that already went Offline.
func (d *Drone) ClearMission() {
	d.missionID = nil
}

func (d *Drone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	d.id = id
	return nil
}

func (d *Drone) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	d.name = name
	return nil
}

func (d *Drone) setMaxPayloadKg(maxPayloadKg float64) error {
	if maxPayloadKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("maxPayloadKg",
			fmt.Errorf("%v is not greater than 0", maxPayloadKg))
	}

	d.maxPayloadKg = maxPayloadKg
	return nil
}

func (d *Drone) setBatteryPct(batteryPct float64) error {
	if batteryPct < BatteryMinPct || batteryPct > BatteryMaxPct {
		return errs.NewValueIsOutOfRangeError("batteryPct", batteryPct, BatteryMinPct, BatteryMaxPct)
	}

	d.batteryPct = batteryPct
	return nil
}

func (d *Drone) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	d.position = position
	return nil
}

// setStatus is used by RestoreDrone only.
func (d *Drone) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	d.status = status
	return nil
}

// setMissionID is used by RestoreDrone only. Assigned and InProgress
// drones must reference a mission; Idle and Maintenance drones must not.
// Offline drones may keep a stale reference until the mission is failed.
func (d *Drone) setMissionID(missionID *kernel.UUID) error {
	if missionID != nil {
		if err := missionID.Validate(); err != nil {
			return err
		}
	}

	hasMission := missionID != nil
	needsMission := d.status == Assigned || d.status == InProgress

	if needsMission && !hasMission {
		return errs.NewValueIsRequiredError("missionId")
	}
	if hasMission && (d.status == Idle || d.status == Maintenance) {
		return errs.NewValueIsInvalidError("missionId on " + d.status.String() + " drone")
	}

	d.missionID = missionID
	return nil
}

// setStats is used by RestoreDrone only.
func (d *Drone) setStats(totalFlights int, totalDistanceKm float64) error {
	if totalFlights < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalFlights",
			fmt.Errorf("%d is not greater or equal to 0", totalFlights))
	}
	if totalDistanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalDistanceKm",
			fmt.Errorf("%v is not greater or equal to 0", totalDistanceKm))
	}

	d.totalFlights = totalFlights
	d.totalDistanceKm = totalDistanceKm
	return nil
}
