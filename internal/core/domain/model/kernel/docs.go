// Package kernel provides core domain primitives for the fleet operations
// system, used as building blocks throughout the domain model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - GeoPoint: a validated WGS84 position with great-circle distance math
//
// These primitives are immutable and thread-safe, and enforce their
// invariants at construction so downstream code never sees an out-of-range
// coordinate or a nil identifier.
package kernel
