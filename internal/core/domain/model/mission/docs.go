// Package mission contains the Mission aggregate: one delivery flight
// pairing an order with a drone, live from assignment until it completes
// or fails.
package mission
