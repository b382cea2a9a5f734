package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRequestReturnCommandIsNotConstructed = errors.New(
	"RequestReturnCommand must be created via NewRequestReturnCommand constructor",
)

// RequestReturnCommand is the buyer asking to send a delivered order back.
type RequestReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	buyerID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewRequestReturnCommand creates a return request command.
func NewRequestReturnCommand(orderID, buyerID kernel.UUID, reason string) (RequestReturnCommand, error) {
	command := RequestReturnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), buyerID.Validate()); err != nil {
		return RequestReturnCommand{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return RequestReturnCommand{}, errs.NewValueIsRequiredError("reason")
	}

	command.orderID = orderID
	command.buyerID = buyerID
	command.reason = strings.TrimSpace(reason)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestReturnCommand) Validate() error {
	return c.guard.Validate(ErrRequestReturnCommandIsNotConstructed)
}

// OrderID returns the order to return.
func (c RequestReturnCommand) OrderID() kernel.UUID { return c.orderID }

// BuyerID returns the requesting buyer.
func (c RequestReturnCommand) BuyerID() kernel.UUID { return c.buyerID }

// Reason returns why the buyer wants the return.
func (c RequestReturnCommand) Reason() string { return c.reason }
