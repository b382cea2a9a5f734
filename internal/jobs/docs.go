// Package jobs provides the scheduled background tasks of the fulfilment
// core, built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OtpSweepJob - removes expired OTP sessions and marks aged-out pending
// audit rows expired (default every 5 minutes)
// 2. BatchPayoutJob - runs the daily seller settlement batch
// 3. PayoutRetryJob - re-submits failed-retryable payouts and payouts held
// on an unverified beneficiary (default hourly)
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(sweepJob, batchJob, retryJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Schedules are standard 5-field cron expressions supplied by configuration.
// Each job logs through a component-tagged slog logger; business-empty runs
// (nothing to sweep, nothing to retry) are logged at debug level only.
package jobs
