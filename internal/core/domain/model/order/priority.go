package order

import (
	"fleetops/internal/pkg/errs"
)

// Priority ranks how urgently an order should be dispatched.
// Higher values are picked up first when several orders compete
// for the same idle drone.
type Priority int

const (
	// Standard is the default priority for regular deliveries.
	Standard Priority = 1

	// Express orders jump ahead of standard ones in dispatch.
	Express Priority = 2

	// Emergency is reserved for medical and safety-critical payloads.
	Emergency Priority = 3
)

// getPriorityStrings returns a map of Priority values to their wire names.
func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		Standard:  "standard",
		Express:   "express",
		Emergency: "emergency",
	}
}

// PriorityFromInt converts a persisted integer back into a Priority.
func PriorityFromInt(value int) (Priority, error) {
	p := Priority(value)
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p, nil
}

// Validate checks if the Priority value is one of the defined levels.
func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsOutOfRangeError("priority", int(p), int(Standard), int(Emergency))
	}
	return nil
}

// String returns the wire name of the priority, or "unknown" for
// invalid values.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}
