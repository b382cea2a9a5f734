package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/usecases/commands"
)

// PayoutRetryJob periodically re-submits failed-retryable payouts and pending
// payouts whose beneficiary has verified since the original run.
type PayoutRetryJob struct {
	handler  commands.RetryPayoutsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPayoutRetryJob creates the retry job with a standard cron schedule.
func NewPayoutRetryJob(
	handler commands.RetryPayoutsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *PayoutRetryJob {
	return &PayoutRetryJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "payout_retry_job"),
	}
}

// Start schedules the job.
func (j *PayoutRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		submitted, err := j.handler.Handle(ctx, commands.NewRetryPayoutsCommand())
		if err != nil {
			j.logger.ErrorContext(ctx, "Payout retry run failed", "error", err, "submitted", submitted)
			return
		}
		if submitted > 0 {
			j.logger.InfoContext(ctx, "Payout retry run completed", "submitted", submitted)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payout retry job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *PayoutRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payout retry job stopped")
}
