package deliverycode

import (
	"fleetops/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery code.
//
// State transitions:
//
//	Active ──> Verified
//	   │
//	   ├──> Locked   (attempts exhausted)
//	   └──> Expired  (TTL passed)
//
// Verified, Locked and Expired are terminal; from any of them the code
// can only be archived.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Active means the code can still be verified.
	Active

	// Verified means the recipient presented the correct code.
	Verified

	// Locked means the attempts were exhausted by wrong entries.
	Locked

	// Expired means the TTL passed before a successful verification.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Active:        "active",
		Verified:      "verified",
		Locked:        "locked",
		Expired:       "expired",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Active:   "active",
		Verified: "verified",
		Locked:   "locked",
		Expired:  "expired",
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

// IsTerminal reports whether the code can change no further.
func (s Status) IsTerminal() bool {
	return s == Verified || s == Locked || s == Expired
}

// ArchiveStatus is the final outcome recorded when a code is moved to
// the archive.
type ArchiveStatus string

const (
	// ArchiveSuccess records a verified handover.
	ArchiveSuccess ArchiveStatus = "SUCCESS"

	// ArchiveFailed records a lockout.
	ArchiveFailed ArchiveStatus = "FAILED"

	// ArchiveExpired records a code that ran out its TTL.
	ArchiveExpired ArchiveStatus = "EXPIRED"
)

// ArchiveStatusFor maps a terminal code status to its archive outcome.
func ArchiveStatusFor(s Status) (ArchiveStatus, error) {
	switch s {
	case Verified:
		return ArchiveSuccess, nil
	case Locked:
		return ArchiveFailed, nil
	case Expired:
		return ArchiveExpired, nil
	default:
		return "", errs.NewValueIsInvalidError("status " + s.String() + " is not terminal")
	}
}

// Event names the audit trail entries written as a code moves through
// its lifecycle.
type Event string

const (
	// EventGenerated is logged when a code is created for an order.
	EventGenerated Event = "GENERATED"
	// EventVerifyFailed is logged on each wrong entry.
	EventVerifyFailed Event = "VERIFY_FAILED"
	// EventVerified is logged on a successful verification.
	EventVerified Event = "VERIFIED"
	// EventLocked is logged when wrong entries exhaust the attempts.
	EventLocked Event = "LOCKED"
	// EventExpired is logged when the TTL passes.
	EventExpired Event = "EXPIRED"
	// EventCompleted is logged when the delivery is closed out after
	// verification.
	EventCompleted Event = "COMPLETED"
)
