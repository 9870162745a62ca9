// Package postgres implements the durable mirror behind the in-memory
// fleet registry. It provides GORM-backed repositories for every
// aggregate plus a Unit of Work that binds them to one transaction.
//
// The registry is the authority for live state; these repositories only
// have to keep the mirror consistent enough to rebuild it on startup
// and to serve read queries. Command handlers mutate the registry
// first, then write the mirror through a short transaction:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, updated); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each command gets its own UnitOfWork instance; instances are not safe
// for concurrent use.
package postgres

import (
	"context"

	"fleetops/internal/adapters/out/postgres/coderepo"
	"fleetops/internal/adapters/out/postgres/dronerepo"
	"fleetops/internal/adapters/out/postgres/missionrepo"
	"fleetops/internal/adapters/out/postgres/orderrepo"
	"fleetops/internal/adapters/out/postgres/telemetryrepo"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate records an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM
// connection pool. Each business operation gets a fresh instance so
// transactions never leak between concurrent commands.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of
// work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the
// aggregate repositories and tracks what was written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling Begin again on an instance with a
// live transaction is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes the current transaction. Returns
// gorm.ErrInvalidTransaction when none is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the current transaction. Returns
// gorm.ErrInvalidTransaction when none is active, which makes it safe
// to defer unconditionally after Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn returns the live transaction, or the pool when none is active.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns an OrderRepository bound to the current
// transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// DroneRepository returns a DroneRepository bound to the current
// transaction.
func (uow *GormUnitOfWork) DroneRepository() ports.DroneRepository {
	return dronerepo.NewGormDroneRepository(uow.conn(), uow)
}

// MissionRepository returns a MissionRepository bound to the current
// transaction.
func (uow *GormUnitOfWork) MissionRepository() ports.MissionRepository {
	return missionrepo.NewGormMissionRepository(uow.conn(), uow)
}

// CodeRepository returns a CodeRepository bound to the current
// transaction.
func (uow *GormUnitOfWork) CodeRepository() ports.CodeRepository {
	return coderepo.NewGormCodeRepository(uow.conn())
}

// TelemetryRepository returns a TelemetryRepository bound to the
// current transaction.
func (uow *GormUnitOfWork) TelemetryRepository() ports.TelemetryRepository {
	return telemetryrepo.NewGormTelemetryRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of
// work. Repositories call it on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
