package commands_test

import (
	"testing"
	"time"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/domain/services"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAssignFixture(t *testing.T, base time.Time) (
	*fleet.Registry, *MockCodeService, *MockDeliveryUoWFactory, *MockDeliveryUoW,
	*MockOrderRepository, *MockDroneRepository, *MockMissionRepository,
) {
	t.Helper()
	registry := fleet.NewRegistry()
	codes := &MockCodeService{}
	factory := &MockDeliveryUoWFactory{}
	uow := &MockDeliveryUoW{}
	orderRepo := &MockOrderRepository{}
	droneRepo := &MockDroneRepository{}
	missionRepo := &MockMissionRepository{}
	return registry, codes, factory, uow, orderRepo, droneRepo, missionRepo
}

func TestAssignMissionCommandHandler_Handle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newHandler := func(
		registry *fleet.Registry,
		weather StubWeatherSource,
		codes commands.CodeService,
		factory commands.DeliveryUoWFactory,
	) commands.AssignMissionCommandHandler {
		return commands.NewAssignMissionCommandHandler(
			registry,
			services.NewDroneDispatcher(),
			services.NewWeatherGate(),
			weather,
			codes,
			factory,
			clock.NewFake(base),
		)
	}

	t.Run("should reserve nearest drone, start mission and issue a code", func(t *testing.T) {
		registry, codes, factory, uow, orderRepo, droneRepo, missionRepo := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		near := testIdleDrone(t, "DRONE_001", base)
		require.NoError(t, registry.AddOrder(o))
		require.NoError(t, registry.AddDrone(near))

		issued, err := deliverycode.NewCode(o.ID(), "ABCDEFGH", base)
		require.NoError(t, err)
		codes.On("Generate", mock.Anything, o.ID(), base).Return(issued, nil)

		factory.On("Create").Return(uow)
		uow.On("Begin", mock.Anything).Return(nil)
		uow.On("OrderRepository").Return(orderRepo)
		uow.On("DroneRepository").Return(droneRepo)
		uow.On("MissionRepository").Return(missionRepo)
		orderRepo.On("Update", mock.Anything, o).Return(nil)
		droneRepo.On("Update", mock.Anything, near).Return(nil)
		missionRepo.On("Add", mock.Anything, mock.AnythingOfType("*mission.Mission")).Return(nil)
		uow.On("Commit", mock.Anything).Return(nil)
		uow.On("Rollback", mock.Anything).Return(nil)

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommand(o.ID())
		require.NoError(t, err)

		result, err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.True(t, result.DroneID.IsEqual(near.ID()))
		assert.Equal(t, "DRONE_001", result.DroneName)
		assert.Equal(t, "ABCDEFGH", result.Code)

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Drone())
		assert.True(t, o.Drone().IsEqual(near.ID()))
		assert.Equal(t, drone.Assigned, near.Status())
		require.NotNil(t, near.Mission())
		assert.True(t, near.Mission().IsEqual(result.MissionID))

		uow.AssertExpectations(t)
		codes.AssertExpectations(t)
	})

	t.Run("should refuse assignment when the weather gate denies flight", func(t *testing.T) {
		registry, codes, factory, _, _, _, _ := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		d := testIdleDrone(t, "DRONE_001", base)
		require.NoError(t, registry.AddOrder(o))
		require.NoError(t, registry.AddDrone(d))

		handler := newHandler(registry, StubWeatherSource{Reading: stormReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommand(o.ID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		var unsafe *commands.WeatherUnsafeError
		require.ErrorAs(t, err, &unsafe)
		assert.NotEmpty(t, unsafe.Reasons)

		// Nothing moved.
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Drone())
		assert.Equal(t, drone.Idle, d.Status())
		_, _, missions, _ := registry.Counts()
		assert.Zero(t, missions)
		codes.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should report no drone when the fleet is busy", func(t *testing.T) {
		registry, codes, factory, _, _, _, _ := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		require.NoError(t, registry.AddOrder(o))

		lowBattery, err := drone.NewDrone(
			kernel.NewUUID(), "DRONE_001", drone.DefaultMaxPayloadKg, 30,
			testPoint(t, 23.3441, 85.3096), base,
		)
		require.NoError(t, err)
		require.NoError(t, registry.AddDrone(lowBattery))

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommand(o.ID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, commands.ErrNoDroneAvailable)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should reserve the drone the caller requested", func(t *testing.T) {
		registry, codes, factory, uow, orderRepo, droneRepo, missionRepo := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		near := testIdleDrone(t, "DRONE_001", base)
		far, err := drone.NewDrone(
			kernel.NewUUID(), "DRONE_002", drone.DefaultMaxPayloadKg, 95,
			testPoint(t, 23.4000, 85.4000), base,
		)
		require.NoError(t, err)
		require.NoError(t, registry.AddOrder(o))
		require.NoError(t, registry.AddDrone(near))
		require.NoError(t, registry.AddDrone(far))

		issued, err := deliverycode.NewCode(o.ID(), "ABCDEFGH", base)
		require.NoError(t, err)
		codes.On("Generate", mock.Anything, o.ID(), base).Return(issued, nil)

		factory.On("Create").Return(uow)
		uow.On("Begin", mock.Anything).Return(nil)
		uow.On("OrderRepository").Return(orderRepo)
		uow.On("DroneRepository").Return(droneRepo)
		uow.On("MissionRepository").Return(missionRepo)
		orderRepo.On("Update", mock.Anything, o).Return(nil)
		droneRepo.On("Update", mock.Anything, far).Return(nil)
		missionRepo.On("Add", mock.Anything, mock.AnythingOfType("*mission.Mission")).Return(nil)
		uow.On("Commit", mock.Anything).Return(nil)
		uow.On("Rollback", mock.Anything).Return(nil)

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)

		// The dispatcher would pick DRONE_001; the caller asks for the
		// farther DRONE_002 instead.
		cmd, err := commands.NewAssignMissionCommandForDrone(o.ID(), far.ID())
		require.NoError(t, err)

		result, err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.True(t, result.DroneID.IsEqual(far.ID()))
		assert.Equal(t, "DRONE_002", result.DroneName)
		assert.Equal(t, drone.Assigned, far.Status())
		assert.Equal(t, drone.Idle, near.Status())
		require.NotNil(t, o.Drone())
		assert.True(t, o.Drone().IsEqual(far.ID()))
	})

	t.Run("should refuse a requested drone that is not available", func(t *testing.T) {
		registry, codes, factory, _, _, _, _ := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		idle := testIdleDrone(t, "DRONE_001", base)
		busy := testIdleDrone(t, "DRONE_002", base)
		require.NoError(t, busy.Assign(kernel.NewUUID(), 1, base))
		require.NoError(t, registry.AddOrder(o))
		require.NoError(t, registry.AddDrone(idle))
		require.NoError(t, registry.AddDrone(busy))

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommandForDrone(o.ID(), busy.ID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		// No fallback to the idle drone when a specific one was asked for.
		assert.ErrorIs(t, err, commands.ErrNoDroneAvailable)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, drone.Idle, idle.Status())
	})

	t.Run("should refuse an unknown requested drone", func(t *testing.T) {
		registry, codes, factory, _, _, _, _ := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		require.NoError(t, registry.AddOrder(o))

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommandForDrone(o.ID(), kernel.NewUUID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, fleet.ErrDroneNotFound)
	})

	t.Run("should refuse a non-pending order", func(t *testing.T) {
		registry, codes, factory, _, _, _, _ := newAssignFixture(t, base)

		o := testPendingOrder(t, base)
		require.NoError(t, registry.AddOrder(o))
		require.NoError(t, o.Assign(kernel.NewUUID(), base))

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommand(o.ID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, commands.ErrOrderNotAssignable)
	})

	t.Run("should refuse an unknown order", func(t *testing.T) {
		registry, codes, factory, _, _, _, _ := newAssignFixture(t, base)

		handler := newHandler(registry, StubWeatherSource{Reading: safeReading(t, base)}, codes, factory)
		cmd, err := commands.NewAssignMissionCommand(kernel.NewUUID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, fleet.ErrOrderNotFound)
	})
}
