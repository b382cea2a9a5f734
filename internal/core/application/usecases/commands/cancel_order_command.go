package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand abandons an order before the package leaves with an
// agent. Actor records who pulled the plug (buyer, seller, admin).
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a cancellation command.
func NewCancelOrderCommand(orderID kernel.UUID, actor, reason string) (CancelOrderCommand, error) {
	command := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	if strings.TrimSpace(actor) == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("actor")
	}
	if strings.TrimSpace(reason) == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}

	command.orderID = orderID
	command.actor = strings.TrimSpace(actor)
	command.reason = strings.TrimSpace(reason)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns who requested the cancellation.
func (c CancelOrderCommand) Actor() string { return c.actor }

// Reason returns why the order was cancelled.
func (c CancelOrderCommand) Reason() string { return c.reason }
