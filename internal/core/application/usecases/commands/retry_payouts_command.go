package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrRetryPayoutsCommandIsNotConstructed = errors.New(
	"RetryPayoutsCommand must be created via NewRetryPayoutsCommand constructor",
)

// RetryPayoutsCommand re-submits payouts stuck in a retryable state: failed
// transfers the gateway taxonomy flags retryable, and pending payouts held
// back by a beneficiary that has since verified.
type RetryPayoutsCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewRetryPayoutsCommand creates a retry sweep command.
func NewRetryPayoutsCommand() RetryPayoutsCommand {
	return RetryPayoutsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c RetryPayoutsCommand) Validate() error {
	return c.guard.Validate(ErrRetryPayoutsCommandIsNotConstructed)
}
