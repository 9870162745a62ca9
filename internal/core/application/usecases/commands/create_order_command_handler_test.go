package commands_test

import (
	"errors"
	"testing"
	"time"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newCommand := func(t *testing.T) commands.CreateOrderCommand {
		t.Helper()
		cmd, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "Asha Verma", "+91-9000000001", "14 Lake Road, Ranchi",
			testPoint(t, 23.3500, 85.3200), 2.5, order.Standard,
		)
		require.NoError(t, err)
		return cmd
	}

	t.Run("should persist and register a pending order", func(t *testing.T) {
		registry := fleet.NewRegistry()
		repo := &MockOrderRepository{}
		uow := &MockOrderUoW{}
		factory := &MockOrderUoWFactory{}

		factory.On("Create").Return(uow)
		mock.InOrder(
			uow.On("Begin", mock.Anything).Return(nil),
			uow.On("OrderRepository").Return(repo),
			repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil),
			uow.On("Commit", mock.Anything).Return(nil),
			uow.On("Rollback", mock.Anything).Return(nil),
		)

		handler := commands.NewCreateOrderCommandHandler(registry, factory, clock.NewFake(base))
		cmd := newCommand(t)

		err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		err = registry.WithOrder(cmd.OrderID(), func(o *order.Order) error {
			assert.Equal(t, order.Pending, o.Status())
			assert.Equal(t, base, o.CreatedAt())
			return nil
		})
		require.NoError(t, err)
		factory.AssertExpectations(t)
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("should not register the order when persistence fails", func(t *testing.T) {
		registry := fleet.NewRegistry()
		repo := &MockOrderRepository{}
		uow := &MockOrderUoW{}
		factory := &MockOrderUoWFactory{}

		boom := errors.New("insert failed")
		factory.On("Create").Return(uow)
		mock.InOrder(
			uow.On("Begin", mock.Anything).Return(nil),
			uow.On("OrderRepository").Return(repo),
			repo.On("Add", mock.Anything, mock.Anything).Return(boom),
			uow.On("Rollback", mock.Anything).Return(nil),
		)

		handler := commands.NewCreateOrderCommandHandler(registry, factory, clock.NewFake(base))
		cmd := newCommand(t)

		err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, boom)
		orders, _, _, _ := registry.Counts()
		assert.Zero(t, orders)
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		handler := commands.NewCreateOrderCommandHandler(
			fleet.NewRegistry(), &MockOrderUoWFactory{}, clock.NewFake(base),
		)

		err := handler.Handle(t.Context(), commands.CreateOrderCommand{})

		assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
