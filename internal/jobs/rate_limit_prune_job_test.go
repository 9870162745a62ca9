package jobs

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"fleetops/internal/pkg/clock"
	"fleetops/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitPruneJob_StartStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	limiter := ratelimit.NewLimiter()
	limiter.Check("client-a", base)

	job := NewRateLimitPruneJob(limiter, clock.NewFake(base.Add(2*time.Hour)), logger)

	require.NoError(t, job.Start())
	job.Stop()

	// The schedule parsed and the job shut down cleanly; the limiter
	// still holds the stale client until a prune tick fires.
	assert.Equal(t, 1, limiter.ClientCount())
	assert.Equal(t, 1, limiter.Prune(base.Add(2*time.Hour)))
	assert.Zero(t, limiter.ClientCount())
}
