// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, registry mutation under
// entity locks, and synchronous mirroring through a unit of work.
package commands

import (
	"context"

	"fleetops/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DroneRepoFactory provides access to the drone repository within a transaction.
	DroneRepoFactory interface {
		DroneRepository() ports.DroneRepository
	}

	// MissionRepoFactory provides access to the mission repository within a transaction.
	MissionRepoFactory interface {
		MissionRepository() ports.MissionRepository
	}

	// TelemetryRepoFactory provides access to the telemetry repository within a transaction.
	TelemetryRepoFactory interface {
		TelemetryRepository() ports.TelemetryRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DroneUoW manages transactions for drone-only operations.
	DroneUoW interface {
		TxManager
		DroneRepoFactory
	}

	// DroneUoWFactory creates new drone unit of work instances.
	DroneUoWFactory interface {
		Create() DroneUoW
	}

	// TelemetryUoW manages transactions for telemetry ingestion, which
	// touches the drone aggregate and the sample log together.
	TelemetryUoW interface {
		TxManager
		DroneRepoFactory
		TelemetryRepoFactory
	}

	// TelemetryUoWFactory creates new telemetry unit of work instances.
	TelemetryUoWFactory interface {
		Create() TelemetryUoW
	}

	// DeliveryUoW manages transactions that span the order, drone and
	// mission aggregates. Used by assignment, completion and forced
	// failure, where all three move together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   droneRepo := uow.DroneRepository()
	//   missionRepo := uow.MissionRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		DroneRepoFactory
		MissionRepoFactory
	}

	// DeliveryUoWFactory creates new unit of work instances for
	// cross-aggregate delivery operations.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}
)
