package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
)

// MaxWeightKg is the heaviest payload any drone in the fleet can lift.
// Orders above this weight are rejected at creation since no drone
// could ever be assigned to them.
const MaxWeightKg = 5.0

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order represents a customer delivery request. It is the aggregate root
// that manages the order lifecycle from creation through drone assignment
// to delivery or failure.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Must have a valid destination and a non-empty address
//   - Weight must be positive and within the fleet payload limit
//   - Status transitions follow the defined state machine
//   - A drone is referenced exactly while the order is Assigned or InTransit
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerName identifies the recipient
	customerName string

	// customerPhone is the recipient's contact number
	customerPhone string

	// address is the human-readable delivery address
	address string

	// destination is the geographic delivery point
	destination kernel.GeoPoint

	// weightKg is the payload weight in kilograms
	weightKg float64

	// priority ranks dispatch urgency
	priority Priority

	// status represents the current state in the order lifecycle
	status Status

	// droneID is the assigned drone's ID (nil if unassigned)
	droneID *kernel.UUID

	// createdAt is when the order was accepted
	createdAt time.Time

	// updatedAt tracks the last state change
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order instance with validation. This is the only way
// to create a valid Order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - customerName: Recipient name (required)
//   - customerPhone: Recipient phone number (required)
//   - address: Human-readable delivery address (required)
//   - destination: Delivery point with validated coordinates
//   - weightKg: Payload weight, must be in (0, MaxWeightKg]
//   - priority: Dispatch priority level
//   - now: Creation timestamp
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
//
// The constructor validates all inputs and ensures the order is created
// with Pending status and no drone assigned.
func NewOrder(
	id kernel.UUID,
	customerName string,
	customerPhone string,
	address string,
	destination kernel.GeoPoint,
	weightKg float64,
	priority Priority,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setCustomerPhone(customerPhone),
		o.setAddress(address),
		o.setDestination(destination),
		o.setWeightKg(weightKg),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persisted state. It bypasses
// creation-time defaults but still validates every field, so corrupt rows
// cannot become live aggregates.
//
// Unlike NewOrder, the status and drone reference come from storage and the
// status/drone consistency rule is checked explicitly.
func RestoreOrder(
	id kernel.UUID,
	customerName string,
	customerPhone string,
	address string,
	destination kernel.GeoPoint,
	weightKg float64,
	priority Priority,
	status Status,
	droneID *kernel.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setCustomerPhone(customerPhone),
		o.setAddress(address),
		o.setDestination(destination),
		o.setWeightKg(weightKg),
		o.setPriority(priority),
		o.setStatus(status),
		o.setDroneID(droneID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
// Orders are considered equal if they have the same ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerName returns the recipient's name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CustomerPhone returns the recipient's phone number.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// Address returns the human-readable delivery address.
func (o *Order) Address() string {
	return o.address
}

// Destination returns the geographic delivery point.
func (o *Order) Destination() kernel.GeoPoint {
	return o.destination
}

// WeightKg returns the payload weight in kilograms.
func (o *Order) WeightKg() float64 {
	return o.weightKg
}

// Priority returns the dispatch priority.
func (o *Order) Priority() Priority {
	return o.priority
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Drone returns the assigned drone's ID.
// Returns nil if no drone is assigned.
func (o *Order) Drone() *kernel.UUID {
	return o.droneID
}

// CreatedAt returns when the order was accepted.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last state change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Assign assigns the order to a drone and updates the status to Assigned.
//
// This method enforces the following business rules:
//   - The drone ID must be valid
//   - The order must be in Pending status
//
// After successful assignment, the order's status becomes Assigned and
// Drone() returns the assigned drone's ID.
func (o *Order) Assign(droneID kernel.UUID, now time.Time) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.droneID = &droneID
	o.updatedAt = now
	return nil
}

// Transit marks the order as in flight. The order must be Assigned.
func (o *Order) Transit(now time.Time) error {
	newStatus, err := o.status.Transit()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.updatedAt = now
	return nil
}

// Deliver marks the order as delivered. The order must be InTransit.
// Delivered is a terminal state; the drone reference is kept for history.
func (o *Order) Deliver(now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.updatedAt = now
	return nil
}

// Cancel cancels the order before launch. The order must be Pending or
// Assigned; the drone reference is cleared so the drone can be released.
func (o *Order) Cancel(now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.droneID = nil
	o.updatedAt = now
	return nil
}

// Fail marks the order as permanently undeliverable. The order must be
// Assigned or InTransit. The drone reference is kept for the audit trail.
func (o *Order) Fail(now time.Time) error {
	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.updatedAt = now
	return nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = name
	return nil
}

func (o *Order) setCustomerPhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errs.NewValueIsRequiredError("customerPhone")
	}
	o.customerPhone = phone
	return nil
}

func (o *Order) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setDestination(destination kernel.GeoPoint) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

// setWeightKg validates and sets the payload weight.
// Weight must be positive and no heavier than MaxWeightKg.
func (o *Order) setWeightKg(weightKg float64) error {
	if weightKg <= 0 || weightKg > MaxWeightKg {
		return errs.NewValueIsOutOfRangeError("weightKg", weightKg, 0, MaxWeightKg)
	}
	o.weightKg = weightKg
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

// setStatus is used by RestoreOrder only.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setDroneID is used by RestoreOrder only. It enforces consistency between
// the status and the drone reference: Assigned and InTransit orders must
// reference a drone, Pending and Cancelled orders must not.
func (o *Order) setDroneID(droneID *kernel.UUID) error {
	if droneID != nil {
		if err := droneID.Validate(); err != nil {
			return err
		}
	}

	hasDrone := droneID != nil
	needsDrone := o.status == Assigned || o.status == InTransit

	if needsDrone && !hasDrone {
		return errs.NewValueIsInvalidErrorWithCause(
			"droneId",
			fmt.Errorf("%s order must reference a drone", o.status),
		)
	}
	if hasDrone && (o.status == Pending || o.status == Cancelled) {
		return errs.NewValueIsInvalidErrorWithCause(
			"droneId",
			fmt.Errorf("%s order cannot reference a drone", o.status),
		)
	}

	o.droneID = droneID
	return nil
}
