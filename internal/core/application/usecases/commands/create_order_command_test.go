package commands_test

import (
	"testing"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	destination := testPoint(t, 23.3500, 85.3200)

	t.Run("should create command with valid fields", func(t *testing.T) {
		orderID := kernel.NewUUID()

		cmd, err := commands.NewCreateOrderCommand(
			orderID, "Asha Verma", "+91-9000000001", "14 Lake Road, Ranchi",
			destination, 2.5, order.Standard,
		)

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.Equal(t, "Asha Verma", cmd.CustomerName())
		assert.InDelta(t, 2.5, cmd.WeightKg(), 1e-9)
		assert.Equal(t, order.Standard, cmd.Priority())
	})

	t.Run("should reject blank customer name", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "  ", "+91-9000000001", "14 Lake Road, Ranchi",
			destination, 2.5, order.Standard,
		)

		assert.ErrorIs(t, err, commands.ErrCustomerNameIsRequired)
	})

	t.Run("should reject blank phone", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "Asha Verma", "", "14 Lake Road, Ranchi",
			destination, 2.5, order.Standard,
		)

		assert.ErrorIs(t, err, commands.ErrCustomerPhoneIsRequired)
	})

	t.Run("should reject blank address", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "Asha Verma", "+91-9000000001", "",
			destination, 2.5, order.Standard,
		)

		assert.ErrorIs(t, err, commands.ErrAddressIsRequired)
	})

	t.Run("should reject non-positive weight", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "Asha Verma", "+91-9000000001", "14 Lake Road, Ranchi",
			destination, 0, order.Standard,
		)

		assert.ErrorIs(t, err, commands.ErrWeightIsInvalid)
	})

	t.Run("should reject zero-value destination", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "Asha Verma", "+91-9000000001", "14 Lake Road, Ranchi",
			kernel.GeoPoint{}, 2.5, order.Standard,
		)

		assert.Error(t, err)
	})

	t.Run("should collect several violations at once", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "", "", "14 Lake Road, Ranchi",
			destination, -1, order.Standard,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrCustomerNameIsRequired)
		assert.ErrorIs(t, err, commands.ErrCustomerPhoneIsRequired)
		assert.ErrorIs(t, err, commands.ErrWeightIsInvalid)
	})

	t.Run("zero-value command fails Validate", func(t *testing.T) {
		var cmd commands.CreateOrderCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
