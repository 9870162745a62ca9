// Package drone contains the Drone aggregate root and its status
// state machine.
//
// Drone models a single airframe in the fleet: its identity, payload
// capacity, battery and position from telemetry, operational status and
// lifetime flight statistics. Assignment rules (idle only, charge floor,
// payload limit) are enforced by the aggregate itself.
package drone
