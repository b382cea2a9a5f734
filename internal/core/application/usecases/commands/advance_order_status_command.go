package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAdvanceOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusCommand must be created via NewAdvanceOrderStatusCommand constructor",
)

// AdvanceOrderStatusCommand is the seller moving an order through their side
// of the lifecycle: Confirmed, Processing, PickupReady. Later stages belong
// to dispatch and agents, never to this command.
type AdvanceOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	sellerID kernel.UUID
	target   order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceOrderStatusCommand creates a seller status advance command.
// Only the three seller-owned statuses are accepted as targets.
func NewAdvanceOrderStatusCommand(
	orderID kernel.UUID,
	sellerID kernel.UUID,
	target order.Status,
) (AdvanceOrderStatusCommand, error) {
	command := AdvanceOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), sellerID.Validate()); err != nil {
		return AdvanceOrderStatusCommand{}, err
	}

	switch target {
	case order.Confirmed, order.Processing, order.PickupReady:
	default:
		return AdvanceOrderStatusCommand{}, errs.NewValueIsInvalidError("target status")
	}

	command.orderID = orderID
	command.sellerID = sellerID
	command.target = target
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to advance.
func (c AdvanceOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// SellerID returns the seller requesting the advance.
func (c AdvanceOrderStatusCommand) SellerID() kernel.UUID { return c.sellerID }

// Target returns the requested status.
func (c AdvanceOrderStatusCommand) Target() order.Status { return c.target }
