package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiredSweeper removes expired OTP sessions and expires aged-out pending
// audit rows. Implemented by the otpverify application service.
type ExpiredSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// OtpSweepJob periodically sweeps expired OTP state. With the in-memory
// session store this is the only thing reclaiming dead sessions; with redis
// it still expires the durable audit rows.
type OtpSweepJob struct {
	sweeper  ExpiredSweeper
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOtpSweepJob creates the sweep job with a standard cron schedule.
func NewOtpSweepJob(sweeper ExpiredSweeper, schedule string, logger *slog.Logger) *OtpSweepJob {
	return &OtpSweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "otp_sweep_job"),
	}
}

// Start schedules the job.
func (j *OtpSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		swept, err := j.sweeper.SweepExpired(ctx, time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "OTP sweep failed", "error", err)
			return
		}
		if swept > 0 {
			j.logger.InfoContext(ctx, "OTP sweep completed", "swept", swept)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "OTP sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *OtpSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "OTP sweep job stopped")
}
