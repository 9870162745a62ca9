// Package order contains the Order aggregate root and its supporting
// value objects.
//
// Order models a customer delivery request from acceptance through drone
// assignment to delivery, cancellation or failure. Status is the order
// state machine; Priority ranks dispatch urgency.
//
// All mutation goes through aggregate methods so the state machine and
// the status/drone consistency rule cannot be bypassed.
package order
