package ratelimit_test

import (
	"fmt"
	"testing"
	"time"

	"fleetops/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_MinuteWindow(t *testing.T) {
	t.Run("should allow up to the minute limit and deny the next", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < ratelimit.PerMinuteLimit; i++ {
			d := l.Check("10.0.0.1", now)
			require.True(t, d.Allowed, "request %d should be allowed", i+1)
		}

		d := l.Check("10.0.0.1", now)

		assert.False(t, d.Allowed)
		assert.Equal(t, ratelimit.ReasonMinuteLimit, d.Reason)
		assert.Greater(t, d.RetryAfter, time.Duration(0))
	})

	t.Run("should free slots as the window slides", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < ratelimit.PerMinuteLimit; i++ {
			require.True(t, l.Check("10.0.0.1", now).Allowed)
		}
		require.False(t, l.Check("10.0.0.1", now).Allowed)

		d := l.Check("10.0.0.1", now.Add(61*time.Second))

		assert.True(t, d.Allowed)
	})

	t.Run("should track clients independently", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < ratelimit.PerMinuteLimit; i++ {
			require.True(t, l.Check("10.0.0.1", now).Allowed)
		}
		require.False(t, l.Check("10.0.0.1", now).Allowed)

		assert.True(t, l.Check("10.0.0.2", now).Allowed)
	})
}

func TestLimiter_HourWindow(t *testing.T) {
	t.Run("should deny past the hourly limit even when each minute is quiet", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		// 500 requests spread at 50 per minute stay under the minute
		// limit but fill the hour allowance.
		at := now
		for i := 0; i < ratelimit.PerHourLimit; i++ {
			if i > 0 && i%50 == 0 {
				at = at.Add(time.Minute)
			}
			require.True(t, l.Check("10.0.0.1", at).Allowed, "request %d", i+1)
		}

		d := l.Check("10.0.0.1", at.Add(time.Minute))

		assert.False(t, d.Allowed)
		assert.Equal(t, ratelimit.ReasonHourLimit, d.Reason)
	})
}

func TestLimiter_Ban(t *testing.T) {
	t.Run("should ban a client that hammers past the threshold", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		// Spread attempts so they all stay inside the hour window.
		var last ratelimit.Decision
		at := now
		for i := 0; i <= ratelimit.BanThresholdPerHour; i++ {
			at = at.Add(time.Second)
			last = l.Check("10.0.0.9", at)
		}

		assert.False(t, last.Allowed)
		assert.Equal(t, ratelimit.ReasonBanned, last.Reason)
		assert.Equal(t, ratelimit.BanDuration, last.RetryAfter)
	})

	t.Run("banned client stays denied until the ban lapses", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		at := now
		for i := 0; i <= ratelimit.BanThresholdPerHour; i++ {
			at = at.Add(time.Second)
			l.Check("10.0.0.9", at)
		}

		d := l.Check("10.0.0.9", at.Add(30*time.Minute))
		assert.False(t, d.Allowed)
		assert.Equal(t, ratelimit.ReasonBanned, d.Reason)

		d = l.Check("10.0.0.9", at.Add(ratelimit.BanDuration+time.Second))
		assert.True(t, d.Allowed)
	})
}

func TestLimiter_Prune(t *testing.T) {
	t.Run("should drop idle clients and keep active and banned ones", func(t *testing.T) {
		l := ratelimit.NewLimiter()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 10; i++ {
			l.Check(fmt.Sprintf("10.0.0.%d", i), now)
		}
		l.Check("10.0.1.1", now.Add(2*time.Hour))
		require.Equal(t, 11, l.ClientCount())

		dropped := l.Prune(now.Add(2 * time.Hour))

		assert.Equal(t, 10, dropped)
		assert.Equal(t, 1, l.ClientCount())
	})
}
