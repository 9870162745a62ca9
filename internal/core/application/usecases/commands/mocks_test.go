package commands_test

import (
	"context"
	"testing"
	"time"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/domain/model/weather"
	"fleetops/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDroneRepository struct {
	mock.Mock
}

func (m *MockDroneRepository) Add(ctx context.Context, aggregate *drone.Drone) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDroneRepository) Update(ctx context.Context, aggregate *drone.Drone) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDroneRepository) Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetByName(ctx context.Context, name string) (*drone.Drone, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetAll(ctx context.Context) ([]*drone.Drone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*drone.Drone), args.Error(1)
}

type MockMissionRepository struct {
	mock.Mock
}

func (m *MockMissionRepository) Add(ctx context.Context, aggregate *mission.Mission) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockMissionRepository) Update(ctx context.Context, aggregate *mission.Mission) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockMissionRepository) Get(ctx context.Context, id kernel.UUID) (*mission.Mission, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*mission.Mission), args.Error(1)
}

func (m *MockMissionRepository) GetAllInProgress(ctx context.Context) ([]*mission.Mission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*mission.Mission), args.Error(1)
}

type MockTelemetryRepository struct {
	mock.Mock
}

func (m *MockTelemetryRepository) AddSample(ctx context.Context, sample ports.TelemetrySample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockTelemetryRepository) GetRecentByDrone(
	ctx context.Context,
	droneID kernel.UUID,
	limit int,
) ([]ports.TelemetrySample, error) {
	args := m.Called(ctx, droneID, limit)
	return args.Get(0).([]ports.TelemetrySample), args.Error(1)
}

type MockOrderUoW struct {
	mock.Mock
}

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct {
	mock.Mock
}

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDroneUoW struct {
	mock.Mock
}

func (m *MockDroneUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDroneUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDroneUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDroneUoW) DroneRepository() ports.DroneRepository {
	args := m.Called()
	return args.Get(0).(ports.DroneRepository)
}

type MockDroneUoWFactory struct {
	mock.Mock
}

func (m *MockDroneUoWFactory) Create() commands.DroneUoW {
	args := m.Called()
	return args.Get(0).(commands.DroneUoW)
}

type MockDeliveryUoW struct {
	mock.Mock
}

func (m *MockDeliveryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockDeliveryUoW) DroneRepository() ports.DroneRepository {
	args := m.Called()
	return args.Get(0).(ports.DroneRepository)
}

func (m *MockDeliveryUoW) MissionRepository() ports.MissionRepository {
	args := m.Called()
	return args.Get(0).(ports.MissionRepository)
}

type MockDeliveryUoWFactory struct {
	mock.Mock
}

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockTelemetryUoW struct {
	mock.Mock
}

func (m *MockTelemetryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTelemetryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTelemetryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTelemetryUoW) DroneRepository() ports.DroneRepository {
	args := m.Called()
	return args.Get(0).(ports.DroneRepository)
}

func (m *MockTelemetryUoW) TelemetryRepository() ports.TelemetryRepository {
	args := m.Called()
	return args.Get(0).(ports.TelemetryRepository)
}

type MockTelemetryUoWFactory struct {
	mock.Mock
}

func (m *MockTelemetryUoWFactory) Create() commands.TelemetryUoW {
	args := m.Called()
	return args.Get(0).(commands.TelemetryUoW)
}

type MockCodeService struct {
	mock.Mock
}

func (m *MockCodeService) Generate(
	ctx context.Context,
	orderID kernel.UUID,
	now time.Time,
) (*deliverycode.Code, error) {
	args := m.Called(ctx, orderID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deliverycode.Code), args.Error(1)
}

func (m *MockCodeService) Verify(
	ctx context.Context,
	orderID kernel.UUID,
	candidate string,
	now time.Time,
) error {
	args := m.Called(ctx, orderID, candidate, now)
	return args.Error(0)
}

func (m *MockCodeService) CompleteDelivery(
	ctx context.Context,
	orderID kernel.UUID,
	success bool,
	now time.Time,
) error {
	args := m.Called(ctx, orderID, success, now)
	return args.Error(0)
}

type MockCodeArchiver struct {
	mock.Mock
}

func (m *MockCodeArchiver) ArchiveExpired(
	ctx context.Context,
	now time.Time,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

// StubWeatherSource returns a fixed reading for every lookup.
type StubWeatherSource struct {
	Reading weather.Reading
	Err     error
}

func (s StubWeatherSource) Current(_ context.Context, _ kernel.GeoPoint) (weather.Reading, error) {
	return s.Reading, s.Err
}

func testPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon, 0)
	require.NoError(t, err)
	return p
}

func testPendingOrder(t *testing.T, now time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"Asha Verma",
		"+91-9000000001",
		"14 Lake Road, Ranchi",
		testPoint(t, 23.3500, 85.3200),
		2.5,
		order.Standard,
		now,
	)
	require.NoError(t, err)
	return o
}

func testIdleDrone(t *testing.T, name string, now time.Time) *drone.Drone {
	t.Helper()
	d, err := drone.NewDrone(
		kernel.NewUUID(),
		name,
		drone.DefaultMaxPayloadKg,
		90,
		testPoint(t, 23.3441, 85.3096),
		now,
	)
	require.NoError(t, err)
	return d
}

func safeReading(t *testing.T, now time.Time) weather.Reading {
	t.Helper()
	r, err := weather.NewReading(5, 0, 8, 28, now)
	require.NoError(t, err)
	return r
}

func stormReading(t *testing.T, now time.Time) weather.Reading {
	t.Helper()
	r, err := weather.NewReading(18, 6, 0.4, 28, now)
	require.NoError(t, err)
	return r
}
