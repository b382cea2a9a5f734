package commands

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrProcessBatchPayoutsCommandIsNotConstructed = errors.New(
	"ProcessBatchPayoutsCommand must be created via NewProcessBatchPayoutsCommand constructor",
)

// ProcessBatchPayoutsCommand settles every eligible delivered order in one
// gateway batch. The suffix disambiguates multiple runs on the same day.
type ProcessBatchPayoutsCommand struct { //nolint:recvcheck //using for validation
	runDate time.Time
	suffix  string

	guard guard.ConstructorGuard
}

// NewProcessBatchPayoutsCommand creates a batch payout run command.
func NewProcessBatchPayoutsCommand(runDate time.Time, suffix string) (ProcessBatchPayoutsCommand, error) {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return ProcessBatchPayoutsCommand{}, errs.NewValueIsRequiredError("suffix")
	}
	if runDate.IsZero() {
		return ProcessBatchPayoutsCommand{}, errs.NewValueIsRequiredError("run date")
	}

	return ProcessBatchPayoutsCommand{
		runDate: runDate,
		suffix:  suffix,

		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessBatchPayoutsCommand) Validate() error {
	return c.guard.Validate(ErrProcessBatchPayoutsCommandIsNotConstructed)
}

// RunDate returns the day this run settles.
func (c ProcessBatchPayoutsCommand) RunDate() time.Time { return c.runDate }

// Suffix returns the per-day run discriminator.
func (c ProcessBatchPayoutsCommand) Suffix() string { return c.suffix }
