// Package errs provides standardized error types for the fleet operations core.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package covers the recoverable half of the core's error taxonomy:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: an identifier resolved to nothing
//   - InvalidTransitionError: a lifecycle transition is not allowed from the
//     entity's current state (a conflict; nothing is mutated)
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type carrying the error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() so errors.Is classifies against
//     the sentinel
//
// Mission-terminal failures (expired or locked delivery codes, lost drone
// connections) are not represented here; those sentinels live with the domain
// packages that own them.
package errs
