package drone

import (
	"fleetops/internal/pkg/errs"
)

// Status represents the operational state of a drone.
//
// State transitions:
//
//	Idle ──> Assigned ──> InProgress ──> Idle
//	  │         │              │
//	  │         └──────────────┘ (abort / mission end)
//	  ├──> Maintenance ──> Idle
//	  └──> Offline (from any state) ──> Idle
//
// A drone accepts new missions only while Idle.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Idle means the drone is on the pad, connected and available
	// for assignment.
	Idle

	// Assigned means a mission has been reserved on the drone but it
	// has not launched yet.
	Assigned

	// InProgress means the drone is flying a mission.
	InProgress

	// Maintenance takes the drone out of the dispatch pool for servicing.
	Maintenance

	// Offline means the drone has lost its telemetry link or was
	// deliberately disconnected.
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Idle:          "idle",
		Assigned:      "assigned",
		InProgress:    "in_progress",
		Maintenance:   "maintenance",
		Offline:       "offline",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Idle:        "idle",
		Assigned:    "assigned",
		InProgress:  "in_progress",
		Maintenance: "maintenance",
		Offline:     "offline",
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

// Assign transitions the status to Assigned. Only an Idle drone can
// take a mission.
func (s Status) Assign() (Status, error) {
	if s != Idle {
		return 0, errs.NewInvalidTransitionError("drone", s.String(), Assigned.String())
	}
	return Assigned, nil
}

// Launch transitions the status to InProgress. The drone must already
// hold an assignment.
func (s Status) Launch() (Status, error) {
	if s != Assigned {
		return 0, errs.NewInvalidTransitionError("drone", s.String(), InProgress.String())
	}
	return InProgress, nil
}

// Release transitions the status back to Idle when a mission ends,
// whether it completed, failed or was aborted before launch.
func (s Status) Release() (Status, error) {
	if s != Assigned && s != InProgress {
		return 0, errs.NewInvalidTransitionError("drone", s.String(), Idle.String())
	}
	return Idle, nil
}

// EnterMaintenance transitions the status to Maintenance. A drone must
// be Idle to be serviced; abort its mission first.
func (s Status) EnterMaintenance() (Status, error) {
	if s != Idle {
		return 0, errs.NewInvalidTransitionError("drone", s.String(), Maintenance.String())
	}
	return Maintenance, nil
}

// ExitMaintenance returns a serviced drone to the dispatch pool.
func (s Status) ExitMaintenance() (Status, error) {
	if s != Maintenance {
		return 0, errs.NewInvalidTransitionError("drone", s.String(), Idle.String())
	}
	return Idle, nil
}

// Disconnect transitions the status to Offline. Allowed from any valid
// state since a link can drop at any time.
func (s Status) Disconnect() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return Offline, nil
}

// Reconnect brings an Offline drone back as Idle. Any mission it was
// flying must be failed separately before reconnecting.
func (s Status) Reconnect() (Status, error) {
	if s != Offline {
		return 0, errs.NewInvalidTransitionError("drone", s.String(), Idle.String())
	}
	return Idle, nil
}
