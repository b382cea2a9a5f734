package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/usecases/commands"
)

// BatchPayoutJob runs the daily seller settlement batch. The batch reference
// is derived from the run date, so a second run on the same day with the
// same suffix fails on the unique batch reference instead of paying twice.
type BatchPayoutJob struct {
	handler  commands.ProcessBatchPayoutsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewBatchPayoutJob creates the batch payout job with a standard cron schedule.
func NewBatchPayoutJob(
	handler commands.ProcessBatchPayoutsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *BatchPayoutJob {
	return &BatchPayoutJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "batch_payout_job"),
	}
}

// Start schedules the job.
func (j *BatchPayoutJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		runDate := time.Now()

		cmd, err := commands.NewProcessBatchPayoutsCommand(runDate, "1")
		if err != nil {
			j.logger.ErrorContext(ctx, "Batch payout command rejected", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Batch payout run failed", "error", err)
			return
		}
		j.logger.InfoContext(ctx, "Batch payout run completed", "runDate", runDate.Format("2006-01-02"))
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Batch payout job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *BatchPayoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Batch payout job stopped")
}
