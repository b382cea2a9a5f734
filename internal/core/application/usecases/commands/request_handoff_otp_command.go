package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRequestHandoffOtpCommandIsNotConstructed = errors.New(
	"RequestHandoffOtpCommand must be created via NewRequestHandoffOtpCommand constructor",
)

// RequestHandoffOtpCommand asks for a handoff confirmation code to be sent
// for an order. The purpose names which handoff: delivery to the buyer,
// return pickup from the buyer, or return drop at the seller.
type RequestHandoffOtpCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID
	purpose otp.Purpose

	guard guard.ConstructorGuard
}

// NewRequestHandoffOtpCommand creates a handoff code request. Auth-flow
// purposes are rejected; those codes go through the session path instead.
func NewRequestHandoffOtpCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	purpose otp.Purpose,
) (RequestHandoffOtpCommand, error) {
	command := RequestHandoffOtpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate(), purpose.Validate()); err != nil {
		return RequestHandoffOtpCommand{}, err
	}
	if purpose.IsAuthFlow() {
		return RequestHandoffOtpCommand{}, errs.NewValueIsInvalidError("purpose")
	}

	command.orderID = orderID
	command.agentID = agentID
	command.purpose = purpose
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestHandoffOtpCommand) Validate() error {
	return c.guard.Validate(ErrRequestHandoffOtpCommandIsNotConstructed)
}

// OrderID returns the order whose handoff needs a code.
func (c RequestHandoffOtpCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the agent asking for the code.
func (c RequestHandoffOtpCommand) AgentID() kernel.UUID { return c.agentID }

// Purpose returns which handoff the code protects.
func (c RequestHandoffOtpCommand) Purpose() otp.Purpose { return c.purpose }
