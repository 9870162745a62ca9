package mission

import (
	"fleetops/internal/pkg/errs"
)

// Status represents the state of a delivery mission.
//
// State transitions:
//
//	InProgress ──> Completed
//	     │
//	     └──> Failed
//
// Completed and Failed are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// InProgress is the initial status; a mission is live from the
	// moment it is created at assignment.
	InProgress

	// Completed means the delivery code was verified and the payload
	// handed over. Terminal state.
	Completed

	// Failed means the mission was aborted: code lockout, expiry,
	// cancellation or a lost drone. Terminal state.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		InProgress:    "in_progress",
		Completed:     "completed",
		Failed:        "failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		InProgress: "in_progress",
		Completed:  "completed",
		Failed:     "failed",
	}
}

// StatusFromString converts a persisted string back into a Status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == value {
			return status, nil
		}
	}
	return 0, errs.NewValueIsInvalidError("status " + value)
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the wire name of the status. Safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the mission can change no further.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// Complete transitions the status to Completed. Only a live mission
// can complete.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, errs.NewInvalidTransitionError("mission", s.String(), Completed.String())
	}
	return Completed, nil
}

// Fail transitions the status to Failed. Only a live mission can fail.
func (s Status) Fail() (Status, error) {
	if s != InProgress {
		return 0, errs.NewInvalidTransitionError("mission", s.String(), Failed.String())
	}
	return Failed, nil
}
