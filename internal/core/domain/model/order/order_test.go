package order_test

import (
	"testing"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDestination(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(23.3441, 85.3096, 0)
	require.NoError(t, err)
	return p
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"Asha Verma",
		"+91-9000000001",
		"14 Lake Road, Ranchi",
		testDestination(t),
		2.5,
		order.Standard,
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	now := time.Now()

	t.Run("should create valid order with all valid parameters", func(t *testing.T) {
		dest := testDestination(t)

		o, err := order.NewOrder(validID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", dest, 2.5, order.Express, now)

		require.NoError(t, err)
		assert.NotNil(t, o)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.Equal(t, "Asha Verma", o.CustomerName())
		assert.Equal(t, "+91-9000000001", o.CustomerPhone())
		assert.Equal(t, "14 Lake Road, Ranchi", o.Address())
		assert.Equal(t, dest, o.Destination())
		assert.InDelta(t, 2.5, o.WeightKg(), 1e-9)
		assert.Equal(t, order.Express, o.Priority())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Drone())
		assert.Equal(t, now, o.CreatedAt())
		assert.Equal(t, now, o.UpdatedAt())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 2.5, order.Standard, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail with invalid destination", func(t *testing.T) {
		var invalidDest kernel.GeoPoint

		o, err := order.NewOrder(validID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", invalidDest, 2.5, order.Standard, now)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with blank customer fields", func(t *testing.T) {
		o, err := order.NewOrder(validID, "  ", "", "14 Lake Road, Ranchi",
			testDestination(t), 2.5, order.Standard, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "customerName")
		assert.Contains(t, err.Error(), "customerPhone")
	})

	t.Run("should fail with zero weight", func(t *testing.T) {
		o, err := order.NewOrder(validID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 0, order.Standard, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "weightKg")
	})

	t.Run("should fail when weight exceeds fleet payload limit", func(t *testing.T) {
		o, err := order.NewOrder(validID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 5.01, order.Standard, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "weightKg")
	})

	t.Run("should accept weight exactly at the payload limit", func(t *testing.T) {
		o, err := order.NewOrder(validID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), order.MaxWeightKg, order.Standard, now)

		require.NoError(t, err)
		assert.NotNil(t, o)
	})

	t.Run("should fail with invalid priority", func(t *testing.T) {
		o, err := order.NewOrder(validID, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 2.5, order.Priority(9), now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "priority")
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, "", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), -1, order.Standard, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "customerName")
		assert.Contains(t, err.Error(), "weightKg")
	})
}

func TestRestoreOrder(t *testing.T) {
	now := time.Now()

	t.Run("should restore assigned order with drone reference", func(t *testing.T) {
		id := kernel.NewUUID()
		droneID := kernel.NewUUID()

		o, err := order.RestoreOrder(id, "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 2.5, order.Standard,
			order.Assigned, &droneID, now, now)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Drone())
		assert.True(t, o.Drone().IsEqual(droneID))
	})

	t.Run("should fail when assigned order has no drone", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 2.5, order.Standard,
			order.Assigned, nil, now, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "must reference a drone")
	})

	t.Run("should fail when pending order has a drone", func(t *testing.T) {
		droneID := kernel.NewUUID()

		o, err := order.RestoreOrder(kernel.NewUUID(), "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 2.5, order.Standard,
			order.Pending, &droneID, now, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "cannot reference a drone")
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), "Asha Verma", "+91-9000000001",
			"14 Lake Road, Ranchi", testDestination(t), 2.5, order.Standard,
			order.Status(42), nil, now, now)

		require.Error(t, err)
		assert.Nil(t, o)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail for zero-value order", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("should fail for nil order", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_Assign(t *testing.T) {
	t.Run("should assign drone to pending order", func(t *testing.T) {
		o := testOrder(t)
		droneID := kernel.NewUUID()
		later := o.CreatedAt().Add(time.Minute)

		err := o.Assign(droneID, later)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Drone())
		assert.True(t, o.Drone().IsEqual(droneID))
		assert.Equal(t, later, o.UpdatedAt())
	})

	t.Run("should fail with invalid drone ID", func(t *testing.T) {
		o := testOrder(t)
		var invalidID kernel.UUID

		err := o.Assign(invalidID, time.Now())

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Drone())
	})

	t.Run("should fail when order is already assigned", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), time.Now()))

		err := o.Assign(kernel.NewUUID(), time.Now())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid state transition")
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("should walk the happy path to delivered", func(t *testing.T) {
		o := testOrder(t)
		now := time.Now()

		require.NoError(t, o.Assign(kernel.NewUUID(), now))
		require.NoError(t, o.Transit(now))
		require.NoError(t, o.Deliver(now))

		assert.Equal(t, order.Delivered, o.Status())
		assert.NotNil(t, o.Drone())
	})

	t.Run("should not transit before assignment", func(t *testing.T) {
		o := testOrder(t)

		err := o.Transit(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should not deliver before launch", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), time.Now()))

		err := o.Deliver(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.Assigned, o.Status())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel pending order", func(t *testing.T) {
		o := testOrder(t)

		err := o.Cancel(time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should cancel assigned order and release drone reference", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), time.Now()))

		err := o.Cancel(time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.Drone())
	})

	t.Run("should not cancel order in transit", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), time.Now()))
		require.NoError(t, o.Transit(time.Now()))

		err := o.Cancel(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.InTransit, o.Status())
	})

	t.Run("should not cancel delivered order", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), time.Now()))
		require.NoError(t, o.Transit(time.Now()))
		require.NoError(t, o.Deliver(time.Now()))

		err := o.Cancel(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.Delivered, o.Status())
	})
}

func TestOrder_Fail(t *testing.T) {
	t.Run("should fail order in transit", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), time.Now()))
		require.NoError(t, o.Transit(time.Now()))

		err := o.Fail(time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Failed, o.Status())
		assert.NotNil(t, o.Drone())
	})

	t.Run("should not fail pending order", func(t *testing.T) {
		o := testOrder(t)

		err := o.Fail(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_IsEqual(t *testing.T) {
	t.Run("should compare orders by ID", func(t *testing.T) {
		a := testOrder(t)
		b := testOrder(t)

		assert.True(t, a.IsEqual(a))
		assert.False(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(nil))
	})
}
