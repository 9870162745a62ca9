package order

import (
	"fleetops/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct delivery workflow.
//
// State transitions:
//
//	Pending ──> Assigned ──> InTransit ──> Delivered
//	   │            │            │
//	   │            ├────────────┴──> Failed
//	   └────────────┴──> Cancelled
//
// Delivered, Cancelled and Failed are terminal states.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status are waiting to be assigned to a drone.
	Pending

	// Assigned indicates the order has been matched with a drone
	// but the mission has not launched yet.
	Assigned

	// InTransit indicates the drone has launched and is flying
	// the delivery mission.
	InTransit

	// Delivered indicates the order reached its destination and the
	// delivery code was verified. Terminal state.
	Delivered

	// Cancelled indicates the order was cancelled before launch.
	// Terminal state.
	Cancelled

	// Failed indicates the delivery could not be completed, for
	// example after a code lockout or a lost drone. Terminal state.
	Failed
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Assigned:  "assigned",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

// StatusFromString converts a persisted string back into a Status.
//
// Returns:
//   - the matching Status for a known string
//   - (0, error) for anything else, including "unknown"
func StatusFromString(value string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == value {
			return status, nil
		}
	}
	return 0, errs.NewValueIsInvalidError("status " + value)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Assigned, InTransit, Delivered, Cancelled, Failed.
// Unknown (0) and any other values are invalid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the wire name of the status.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status allows no further transitions.
// Delivered, Cancelled and Failed are terminal.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// Assign transitions the status to Assigned.
//
// Valid transitions:
//   - Pending -> Assigned (drone matched to the order)
//
// Returns:
//   - (Assigned, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Assign() (Status, error) {
	if s != Pending {
		return 0, errs.NewInvalidTransitionError("order", s.String(), Assigned.String())
	}
	return Assigned, nil
}

// Transit transitions the status to InTransit.
//
// Valid transitions:
//   - Assigned -> InTransit (mission launched)
//
// Returns:
//   - (InTransit, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Transit() (Status, error) {
	if s != Assigned {
		return 0, errs.NewInvalidTransitionError("order", s.String(), InTransit.String())
	}
	return InTransit, nil
}

// Deliver transitions the status to Delivered.
//
// Valid transitions:
//   - InTransit -> Delivered (delivery code verified at destination)
//
// Returns:
//   - (Delivered, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Deliver() (Status, error) {
	if s != InTransit {
		return 0, errs.NewInvalidTransitionError("order", s.String(), Delivered.String())
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled
//   - Assigned -> Cancelled (before launch)
//
// An order already in transit cannot be cancelled; it must complete
// or fail.
//
// Returns:
//   - (Cancelled, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Cancel() (Status, error) {
	if s != Pending && s != Assigned {
		return 0, errs.NewInvalidTransitionError("order", s.String(), Cancelled.String())
	}
	return Cancelled, nil
}

// Fail transitions the status to Failed.
//
// Valid transitions:
//   - Assigned -> Failed
//   - InTransit -> Failed (code lockout, expiry or lost drone)
//
// Returns:
//   - (Failed, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Fail() (Status, error) {
	if s != Assigned && s != InTransit {
		return 0, errs.NewInvalidTransitionError("order", s.String(), Failed.String())
	}
	return Failed, nil
}
