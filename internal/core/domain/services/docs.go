// Package services contains stateless domain services that coordinate
// decisions across aggregates: drone selection for orders and the
// weather launch gate.
package services
