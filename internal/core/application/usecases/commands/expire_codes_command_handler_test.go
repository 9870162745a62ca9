package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExpireCodesCommandHandler_Handle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("expired code fails the in-flight delivery", func(t *testing.T) {
		registry := fleet.NewRegistry()
		o, d, m := inFlightDelivery(t, registry, base)

		archiver := &MockCodeArchiver{}
		archiver.On("ArchiveExpired", mock.Anything, base).
			Return([]kernel.UUID{o.ID()}, nil)

		factory := &MockDeliveryUoWFactory{}
		uow := &MockDeliveryUoW{}
		expectTeardownMirror(factory, uow, &MockOrderRepository{}, &MockDroneRepository{}, &MockMissionRepository{})

		handler := commands.NewExpireCodesCommandHandler(
			registry, archiver, factory, clock.NewFake(base), logger,
		)

		expired, err := handler.Handle(t.Context(), commands.NewExpireCodesCommand())

		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.True(t, expired[0].IsEqual(o.ID()))
		assert.Equal(t, order.Failed, o.Status())
		assert.Equal(t, mission.Failed, m.Status())
		assert.Equal(t, drone.Idle, d.Status())
		assert.Nil(t, d.Mission())
		_, _, missions, _ := registry.Counts()
		assert.Zero(t, missions)
		archiver.AssertExpectations(t)
	})

	t.Run("nothing expired leaves the fleet untouched", func(t *testing.T) {
		registry := fleet.NewRegistry()
		o, d, m := inFlightDelivery(t, registry, base)

		archiver := &MockCodeArchiver{}
		archiver.On("ArchiveExpired", mock.Anything, base).
			Return([]kernel.UUID{}, nil)

		handler := commands.NewExpireCodesCommandHandler(
			registry, archiver, &MockDeliveryUoWFactory{}, clock.NewFake(base), logger,
		)

		expired, err := handler.Handle(t.Context(), commands.NewExpireCodesCommand())

		require.NoError(t, err)
		assert.Empty(t, expired)
		assert.Equal(t, order.InTransit, o.Status())
		assert.Equal(t, mission.InProgress, m.Status())
		assert.Equal(t, drone.InProgress, d.Status())
	})

	t.Run("archiver failure aborts the sweep", func(t *testing.T) {
		archiver := &MockCodeArchiver{}
		archiver.On("ArchiveExpired", mock.Anything, base).
			Return(nil, errors.New("connection refused"))

		handler := commands.NewExpireCodesCommandHandler(
			fleet.NewRegistry(), archiver, &MockDeliveryUoWFactory{},
			clock.NewFake(base), logger,
		)

		_, err := handler.Handle(t.Context(), commands.NewExpireCodesCommand())

		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("delivery that raced to completion is left alone", func(t *testing.T) {
		registry := fleet.NewRegistry()
		o, d, m := inFlightDelivery(t, registry, base)
		require.NoError(t, m.Complete(12.5, 1.3, base))
		require.NoError(t, o.Deliver(base))
		require.NoError(t, d.CompleteMission(12.5, 1.3, base))

		archiver := &MockCodeArchiver{}
		archiver.On("ArchiveExpired", mock.Anything, base).
			Return([]kernel.UUID{o.ID()}, nil)

		handler := commands.NewExpireCodesCommandHandler(
			registry, archiver, &MockDeliveryUoWFactory{}, clock.NewFake(base), logger,
		)

		expired, err := handler.Handle(t.Context(), commands.NewExpireCodesCommand())

		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, drone.Idle, d.Status())
	})

	t.Run("unassigned order is failed on its own", func(t *testing.T) {
		registry := fleet.NewRegistry()
		o := testPendingOrder(t, base)
		require.NoError(t, registry.AddOrder(o))

		archiver := &MockCodeArchiver{}
		archiver.On("ArchiveExpired", mock.Anything, base).
			Return([]kernel.UUID{o.ID()}, nil)

		factory := &MockDeliveryUoWFactory{}
		uow := &MockDeliveryUoW{}
		orderRepo := &MockOrderRepository{}
		factory.On("Create").Return(uow)
		uow.On("Begin", mock.Anything).Return(nil)
		uow.On("OrderRepository").Return(orderRepo)
		orderRepo.On("Update", mock.Anything, o).Return(nil)
		uow.On("Commit", mock.Anything).Return(nil)
		uow.On("Rollback", mock.Anything).Return(nil)

		handler := commands.NewExpireCodesCommandHandler(
			registry, archiver, factory, clock.NewFake(base), logger,
		)

		expired, err := handler.Handle(t.Context(), commands.NewExpireCodesCommand())

		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, order.Failed, o.Status())
		orderRepo.AssertExpectations(t)
	})

	t.Run("unknown order is logged and skipped", func(t *testing.T) {
		archiver := &MockCodeArchiver{}
		archiver.On("ArchiveExpired", mock.Anything, base).
			Return([]kernel.UUID{kernel.NewUUID()}, nil)

		handler := commands.NewExpireCodesCommandHandler(
			fleet.NewRegistry(), archiver, &MockDeliveryUoWFactory{},
			clock.NewFake(base), logger,
		)

		expired, err := handler.Handle(t.Context(), commands.NewExpireCodesCommand())

		require.NoError(t, err)
		assert.Len(t, expired, 1)
	})
}
