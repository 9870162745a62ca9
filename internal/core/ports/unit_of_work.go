package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary over the
// durable mirror. It provides transaction control and repositories
// bound to the running transaction. Client code must explicitly manage
// the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// DroneRepository returns a DroneRepository bound to the current transaction.
	DroneRepository() DroneRepository

	// MissionRepository returns a MissionRepository bound to the current transaction.
	MissionRepository() MissionRepository

	// CodeRepository returns a CodeRepository bound to the current transaction.
	CodeRepository() CodeRepository

	// TelemetryRepository returns a TelemetryRepository bound to the current transaction.
	TelemetryRepository() TelemetryRepository
}
