package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrProcessPayoutCommandIsNotConstructed = errors.New(
	"ProcessPayoutCommand must be created via NewProcessPayoutCommand constructor",
)

// ProcessPayoutCommand settles a single delivered order with its seller.
type ProcessPayoutCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessPayoutCommand creates a single-order payout command.
func NewProcessPayoutCommand(orderID kernel.UUID) (ProcessPayoutCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ProcessPayoutCommand{}, err
	}

	return ProcessPayoutCommand{
		orderID: orderID,

		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPayoutCommand) Validate() error {
	return c.guard.Validate(ErrProcessPayoutCommandIsNotConstructed)
}

// OrderID returns the order to settle.
func (c ProcessPayoutCommand) OrderID() kernel.UUID { return c.orderID }
