package jobs

import (
	"fmt"
	"log/slog"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/pkg/clock"
	"fleetops/internal/ratelimit"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	codeExpiryJob     *CodeExpiryJob
	telemetrySweepJob *TelemetrySweepJob
	rateLimitPruneJob *RateLimitPruneJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireCodesHandler commands.ExpireCodesCommandHandler,
	failLostMissionsHandler commands.FailLostMissionsCommandHandler,
	limiter *ratelimit.Limiter,
	clk clock.Clock,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		codeExpiryJob:     NewCodeExpiryJob(expireCodesHandler, logger),
		telemetrySweepJob: NewTelemetrySweepJob(failLostMissionsHandler, logger),
		rateLimitPruneJob: NewRateLimitPruneJob(limiter, clk, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.codeExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start code expiry job: %w", err)
	}

	if err := jm.telemetrySweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.codeExpiryJob.Stop()
		return fmt.Errorf("failed to start telemetry sweep job: %w", err)
	}

	if err := jm.rateLimitPruneJob.Start(); err != nil {
		jm.telemetrySweepJob.Stop()
		jm.codeExpiryJob.Stop()
		return fmt.Errorf("failed to start rate limit prune job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.rateLimitPruneJob.Stop()
	jm.telemetrySweepJob.Stop()
	jm.codeExpiryJob.Stop()
}
