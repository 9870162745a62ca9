package jobs

import (
	"context"
	"log/slog"

	"fleetops/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// CodeExpiryJob manages the scheduled expiry of delivery codes.
// Runs every minute to archive codes past their TTL and fail the
// deliveries they were protecting.
type CodeExpiryJob struct {
	handler commands.ExpireCodesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewCodeExpiryJob creates a new job for expiring delivery codes.
func NewCodeExpiryJob(handler commands.ExpireCodesCommandHandler, logger *slog.Logger) *CodeExpiryJob {
	return &CodeExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "code_expiry_job"),
	}
}

// Start begins the code expiry job to run every minute.
func (j *CodeExpiryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewExpireCodesCommand()

		expired, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Code expiry job failed", "error", err)
			return
		}
		if len(expired) > 0 {
			j.logger.InfoContext(ctx, "Expired delivery codes archived", "count", len(expired))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Code expiry job started (running every minute)")
	return nil
}

// Stop stops the code expiry job.
func (j *CodeExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Code expiry job stopped")
}
