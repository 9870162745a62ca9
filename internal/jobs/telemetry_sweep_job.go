package jobs

import (
	"context"
	"log/slog"

	"fleetops/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TelemetrySweepJob manages the scheduled detection of lost drones.
// Runs every ten seconds so a drone that stops reporting mid-mission
// gets its delivery failed shortly after crossing the offline threshold.
type TelemetrySweepJob struct {
	handler commands.FailLostMissionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewTelemetrySweepJob creates a new job for sweeping silent drones.
func NewTelemetrySweepJob(handler commands.FailLostMissionsCommandHandler, logger *slog.Logger) *TelemetrySweepJob {
	return &TelemetrySweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "telemetry_sweep_job"),
	}
}

// Start begins the telemetry sweep job to run every ten seconds.
func (j *TelemetrySweepJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewFailLostMissionsCommand()

		failed, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Telemetry sweep job failed", "error", err)
			return
		}
		if len(failed) > 0 {
			j.logger.WarnContext(ctx, "Deliveries failed for lost drones", "count", len(failed))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Telemetry sweep job started (running every ten seconds)")
	return nil
}

// Stop stops the telemetry sweep job.
func (j *TelemetrySweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Telemetry sweep job stopped")
}
