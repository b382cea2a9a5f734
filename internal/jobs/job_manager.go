package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	otpSweepJob    *OtpSweepJob
	batchPayoutJob *BatchPayoutJob
	payoutRetryJob *PayoutRetryJob
}

// NewJobManager creates a new job manager over the three scheduled jobs.
func NewJobManager(
	otpSweepJob *OtpSweepJob,
	batchPayoutJob *BatchPayoutJob,
	payoutRetryJob *PayoutRetryJob,
) *JobManager {
	return &JobManager{
		otpSweepJob:    otpSweepJob,
		batchPayoutJob: batchPayoutJob,
		payoutRetryJob: payoutRetryJob,
	}
}

// StartAll starts all scheduled jobs. If one fails to start, the jobs
// already running are stopped before the error is returned.
func (jm *JobManager) StartAll() error {
	if err := jm.otpSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start otp sweep job: %w", err)
	}

	if err := jm.batchPayoutJob.Start(); err != nil {
		jm.otpSweepJob.Stop()
		return fmt.Errorf("failed to start batch payout job: %w", err)
	}

	if err := jm.payoutRetryJob.Start(); err != nil {
		jm.batchPayoutJob.Stop()
		jm.otpSweepJob.Stop()
		return fmt.Errorf("failed to start payout retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.payoutRetryJob.Stop()
	jm.batchPayoutJob.Stop()
	jm.otpSweepJob.Stop()
}
