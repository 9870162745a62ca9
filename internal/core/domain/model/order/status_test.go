package order_test

import (
	"testing"

	"fleetops/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should accept all defined statuses", func(t *testing.T) {
		statuses := []order.Status{
			order.Pending, order.Assigned, order.InTransit,
			order.Delivered, order.Cancelled, order.Failed,
		}

		for _, s := range statuses {
			assert.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("should reject unknown and out-of-range values", func(t *testing.T) {
		assert.Error(t, order.Unknown.Validate())
		assert.Error(t, order.Status(42).Validate())
		assert.Error(t, order.Status(-1).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status order.Status
		want   string
	}{
		{order.Pending, "pending"},
		{order.Assigned, "assigned"},
		{order.InTransit, "in_transit"},
		{order.Delivered, "delivered"},
		{order.Cancelled, "cancelled"},
		{order.Failed, "failed"},
		{order.Unknown, "unknown"},
		{order.Status(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestStatusFromString(t *testing.T) {
	t.Run("should round-trip all valid statuses", func(t *testing.T) {
		statuses := []order.Status{
			order.Pending, order.Assigned, order.InTransit,
			order.Delivered, order.Cancelled, order.Failed,
		}

		for _, s := range statuses {
			got, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, got)
		}
	})

	t.Run("should reject unknown strings", func(t *testing.T) {
		_, err := order.StatusFromString("unknown")
		assert.Error(t, err)

		_, err = order.StatusFromString("shipped")
		assert.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.Assigned.IsTerminal())
	assert.False(t, order.InTransit.IsTerminal())
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.True(t, order.Failed.IsTerminal())
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("assign", func(t *testing.T) {
		got, err := order.Pending.Assign()
		require.NoError(t, err)
		assert.Equal(t, order.Assigned, got)

		for _, s := range []order.Status{order.Assigned, order.InTransit, order.Delivered, order.Cancelled, order.Failed} {
			_, err := s.Assign()
			assert.Error(t, err, s.String())
		}
	})

	t.Run("transit", func(t *testing.T) {
		got, err := order.Assigned.Transit()
		require.NoError(t, err)
		assert.Equal(t, order.InTransit, got)

		for _, s := range []order.Status{order.Pending, order.InTransit, order.Delivered, order.Cancelled, order.Failed} {
			_, err := s.Transit()
			assert.Error(t, err, s.String())
		}
	})

	t.Run("deliver", func(t *testing.T) {
		got, err := order.InTransit.Deliver()
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, got)

		for _, s := range []order.Status{order.Pending, order.Assigned, order.Delivered, order.Cancelled, order.Failed} {
			_, err := s.Deliver()
			assert.Error(t, err, s.String())
		}
	})

	t.Run("cancel", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Assigned} {
			got, err := s.Cancel()
			require.NoError(t, err, s.String())
			assert.Equal(t, order.Cancelled, got)
		}

		for _, s := range []order.Status{order.InTransit, order.Delivered, order.Cancelled, order.Failed} {
			_, err := s.Cancel()
			assert.Error(t, err, s.String())
		}
	})

	t.Run("fail", func(t *testing.T) {
		for _, s := range []order.Status{order.Assigned, order.InTransit} {
			got, err := s.Fail()
			require.NoError(t, err, s.String())
			assert.Equal(t, order.Failed, got)
		}

		for _, s := range []order.Status{order.Pending, order.Delivered, order.Cancelled, order.Failed} {
			_, err := s.Fail()
			assert.Error(t, err, s.String())
		}
	})

	t.Run("transition errors carry from and to states", func(t *testing.T) {
		_, err := order.Delivered.Assign()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivered")
		assert.Contains(t, err.Error(), "assigned")
	})
}

func TestPriority(t *testing.T) {
	t.Run("should validate defined levels", func(t *testing.T) {
		assert.NoError(t, order.Standard.Validate())
		assert.NoError(t, order.Express.Validate())
		assert.NoError(t, order.Emergency.Validate())
		assert.Error(t, order.Priority(0).Validate())
		assert.Error(t, order.Priority(4).Validate())
	})

	t.Run("should convert from int", func(t *testing.T) {
		p, err := order.PriorityFromInt(2)
		require.NoError(t, err)
		assert.Equal(t, order.Express, p)

		_, err = order.PriorityFromInt(7)
		assert.Error(t, err)
	})

	t.Run("should have wire names", func(t *testing.T) {
		assert.Equal(t, "standard", order.Standard.String())
		assert.Equal(t, "express", order.Express.String())
		assert.Equal(t, "emergency", order.Emergency.String())
		assert.Equal(t, "unknown", order.Priority(9).String())
	})
}
