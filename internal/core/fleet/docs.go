// Package fleet holds the authoritative in-memory state of the system:
// every order, drone, live mission and active delivery code, each
// behind its own lock.
//
// The durable store is a mirror of this state, written synchronously
// after each transition; reads for queries go to the mirror, all
// writes go through the registry.
package fleet
