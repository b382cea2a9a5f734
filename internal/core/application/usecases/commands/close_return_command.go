package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCloseReturnCommandIsNotConstructed = errors.New(
	"CloseReturnCommand must be created via NewCloseReturnCommand constructor",
)

// CloseReturnCommand completes a return after the seller has confirmed
// receipt of the package.
type CloseReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCloseReturnCommand creates a return close command.
func NewCloseReturnCommand(orderID kernel.UUID) (CloseReturnCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CloseReturnCommand{}, err
	}

	return CloseReturnCommand{
		orderID: orderID,

		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CloseReturnCommand) Validate() error {
	return c.guard.Validate(ErrCloseReturnCommandIsNotConstructed)
}

// OrderID returns the order whose return is being closed.
func (c CloseReturnCommand) OrderID() kernel.UUID { return c.orderID }
