package jobs

import (
	"context"
	"log/slog"

	"fleetops/internal/pkg/clock"
	"fleetops/internal/ratelimit"

	"github.com/robfig/cron/v3"
)

// RateLimitPruneJob manages the scheduled cleanup of idle rate limiter
// state. Runs every ten minutes so one-off clients do not accumulate in
// memory for the lifetime of the process.
type RateLimitPruneJob struct {
	limiter *ratelimit.Limiter
	clock   clock.Clock
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRateLimitPruneJob creates a new job for pruning idle limiter clients.
func NewRateLimitPruneJob(limiter *ratelimit.Limiter, clk clock.Clock, logger *slog.Logger) *RateLimitPruneJob {
	return &RateLimitPruneJob{
		limiter: limiter,
		clock:   clk,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "rate_limit_prune_job"),
	}
}

// Start begins the prune job to run every ten minutes.
func (j *RateLimitPruneJob) Start() error {
	_, err := j.cron.AddFunc("0 */10 * * * *", func() {
		ctx := context.Background()

		pruned := j.limiter.Prune(j.clock.Now())
		if pruned > 0 {
			j.logger.InfoContext(ctx, "Idle rate limiter clients pruned", "count", pruned)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Rate limit prune job started (running every ten minutes)")
	return nil
}

// Stop stops the prune job.
func (j *RateLimitPruneJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Rate limit prune job stopped")
}
