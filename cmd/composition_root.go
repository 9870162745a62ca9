package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "fleetops/internal/adapters/in/http"
	"fleetops/internal/adapters/out/postgres"
	"fleetops/internal/adapters/out/postgres/coderepo"
	"fleetops/internal/adapters/out/postgres/dronerepo"
	"fleetops/internal/adapters/out/postgres/missionrepo"
	"fleetops/internal/adapters/out/postgres/orderrepo"
	"fleetops/internal/adapters/out/postgres/telemetryrepo"
	"fleetops/internal/adapters/out/weatherapi"
	"fleetops/internal/codes"
	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/application/usecases/queries"
	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/services"
	"fleetops/internal/core/fleet"
	"fleetops/internal/core/ports"
	"fleetops/internal/jobs"
	"fleetops/internal/pkg/clock"
	"fleetops/internal/ratelimit"
	"fleetops/internal/telemetry"

	"gorm.io/gorm"
)

// seedDrones is the fleet registered on first boot against an empty
// drones table. All three start at the depot in Ranchi.
var seedDrones = []string{"DRONE_001", "DRONE_002", "DRONE_003"}

const (
	depotLatitude  = 23.3441
	depotLongitude = 85.3096
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	registry    *fleet.Registry
	monitor     *telemetry.Monitor
	limiter     *ratelimit.Limiter
	codeManager *codes.Manager
	weather     ports.WeatherSource
	clock       clock.Clock
	logger      *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	uowFactory := *postgres.NewGormUnitOfWorkFactory(gormDB)
	registry := fleet.NewRegistry()
	clk := clock.System()

	var codeUoWs codes.CodeUoWFactory = FuncCodeUoWFactory(func() codes.CodeUoW {
		return uowFactory.Create()
	})

	var source ports.WeatherSource
	if configs.WeatherAPIKey != "" {
		source = weatherapi.NewOpenWeatherClient(configs.WeatherAPIKey, clk, logger)
	} else {
		logger.Warn("no weather API key configured, using fixed fair-weather readings")
		source = weatherapi.NewFairWeather(clk)
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  uowFactory,
		registry:    registry,
		monitor:     telemetry.NewMonitor(logger),
		limiter:     ratelimit.NewLimiter(),
		codeManager: codes.NewManager(registry, codeUoWs, logger),
		weather:     source,
		clock:       clk,
		logger:      logger,
	}
}

// Migrate creates or updates the mirror schema.
func (c *CompositionRoot) Migrate() error {
	return c.gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&dronerepo.DroneDTO{},
		&missionrepo.MissionDTO{},
		&coderepo.ActiveCodeDTO{},
		&coderepo.ArchivedCodeDTO{},
		&coderepo.CodeHistoryDTO{},
		&telemetryrepo.TelemetrySampleDTO{},
	)
}

// RestoreFleet rebuilds the in-memory registry from the mirror: every
// drone, every non-terminal order, every live mission and every active
// code. Called once at startup before the server accepts requests.
func (c *CompositionRoot) RestoreFleet(ctx context.Context) error {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drones, err := uow.DroneRepository().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore drones: %w", err)
	}
	for _, d := range drones {
		if err = c.registry.AddDrone(d); err != nil {
			return err
		}
		// Seed the monitor at the persisted last-seen time so restored
		// drones are graded on heartbeat recency straight away.
		c.monitor.Heartbeat(d.ID(), telemetry.Sample{
			BatteryPct: d.BatteryPct(),
			Position:   d.Position(),
		}, d.LastSeenAt())
	}

	orders, err := uow.OrderRepository().GetAllActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore orders: %w", err)
	}
	for _, o := range orders {
		if err = c.registry.AddOrder(o); err != nil {
			return err
		}
	}

	missions, err := uow.MissionRepository().GetAllInProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore missions: %w", err)
	}
	for _, m := range missions {
		if err = c.registry.AddMission(m); err != nil {
			return err
		}
	}

	activeCodes, err := uow.CodeRepository().GetAllActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore codes: %w", err)
	}
	for _, code := range activeCodes {
		if err = c.registry.AddCode(code); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	c.logger.Info("fleet restored from mirror",
		"drones", len(drones), "orders", len(orders),
		"missions", len(missions), "codes", len(activeCodes))
	return nil
}

// SeedFleet registers the default drones when the fleet is empty.
// Must run after RestoreFleet.
func (c *CompositionRoot) SeedFleet(ctx context.Context) error {
	_, drones, _, _ := c.registry.Counts()
	if drones > 0 {
		return nil
	}

	handler := c.CreateRegisterDroneCommandHandler()
	position, err := kernel.NewGeoPoint(depotLatitude, depotLongitude, 0)
	if err != nil {
		return err
	}

	for _, name := range seedDrones {
		cmd, err := commands.NewRegisterDroneCommand(
			kernel.NewUUID(), name, drone.DefaultMaxPayloadKg, 100, position,
		)
		if err != nil {
			return err
		}
		if err = handler.Handle(ctx, cmd); err != nil {
			return fmt.Errorf("failed to seed drone %s: %w", name, err)
		}
	}

	c.logger.Info("seeded default fleet", "drones", len(seedDrones))
	return nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(c.registry, f, c.clock)
}

func (c *CompositionRoot) CreateRegisterDroneCommandHandler() commands.RegisterDroneCommandHandler {
	var f commands.DroneUoWFactory = FuncDroneUoWFactory(func() commands.DroneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterDroneCommandHandler(c.registry, f, c.clock)
}

func (c *CompositionRoot) CreateAssignMissionCommandHandler() commands.AssignMissionCommandHandler {
	return commands.NewAssignMissionCommandHandler(
		c.registry,
		services.NewDroneDispatcher(),
		services.NewWeatherGate(),
		c.weather,
		c.codeManager,
		c.deliveryUoWFactory(),
		c.clock,
	)
}

func (c *CompositionRoot) CreateCompleteMissionCommandHandler() commands.CompleteMissionCommandHandler {
	return commands.NewCompleteMissionCommandHandler(
		c.registry, c.codeManager, c.deliveryUoWFactory(), c.clock,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.registry, c.codeManager, c.deliveryUoWFactory(), c.clock,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.registry, c.deliveryUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateTelemetryCommandHandler() commands.UpdateTelemetryCommandHandler {
	var f commands.TelemetryUoWFactory = FuncTelemetryUoWFactory(func() commands.TelemetryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateTelemetryCommandHandler(c.registry, c.monitor, f, c.clock)
}

func (c *CompositionRoot) CreateExpireCodesCommandHandler() commands.ExpireCodesCommandHandler {
	return commands.NewExpireCodesCommandHandler(
		c.registry, c.codeManager, c.deliveryUoWFactory(), c.clock, c.logger,
	)
}

func (c *CompositionRoot) CreateFailLostMissionsCommandHandler() commands.FailLostMissionsCommandHandler {
	return commands.NewFailLostMissionsCommandHandler(
		c.registry, c.monitor, c.codeManager, c.deliveryUoWFactory(), c.clock, c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDronesQueryHandler() queries.ListDronesQueryHandler {
	return queries.NewListDronesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListMissionsQueryHandler() queries.ListMissionsQueryHandler {
	return queries.NewListMissionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFleetStatsQueryHandler() queries.GetFleetStatsQueryHandler {
	return queries.NewGetFleetStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRegisterDroneCommandHandler(),
		c.CreateAssignMissionCommandHandler(),
		c.CreateCompleteMissionCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateUpdateTelemetryCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateListDronesQueryHandler(),
		c.CreateListMissionsQueryHandler(),
		c.CreateGetFleetStatsQueryHandler(),
		c.monitor,
		coderepo.NewGormCodeRepository(c.gormDB),
		c.limiter,
		c.clock,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireCodesCommandHandler(),
		c.CreateFailLostMissionsCommandHandler(),
		c.limiter,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDroneUoWFactory func() commands.DroneUoW

func (f FuncDroneUoWFactory) Create() commands.DroneUoW {
	return f()
}

type FuncTelemetryUoWFactory func() commands.TelemetryUoW

func (f FuncTelemetryUoWFactory) Create() commands.TelemetryUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncCodeUoWFactory func() codes.CodeUoW

func (f FuncCodeUoWFactory) Create() codes.CodeUoW {
	return f()
}
