package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand represents a delivery agent confirming the buyer
// handoff with the OTP the buyer received. Unlike pickup, the code is checked
// against the SMS gateway, not a local string.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	agentID  kernel.UUID
	otpCode  string
	location *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a delivery confirmation command.
// Location is optional; agents without GPS confirm without it.
func NewCompleteDeliveryCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	otpCode string,
	location *kernel.GeoPoint,
) (CompleteDeliveryCommand, error) {
	command := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		agentID.Validate(),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	if strings.TrimSpace(otpCode) == "" {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredError("otp code")
	}

	command.orderID = orderID
	command.agentID = agentID
	command.otpCode = strings.TrimSpace(otpCode)
	command.location = location
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the agent confirming the delivery.
func (c CompleteDeliveryCommand) AgentID() kernel.UUID {
	return c.agentID
}

// OtpCode returns the code the buyer read out.
func (c CompleteDeliveryCommand) OtpCode() string {
	return c.otpCode
}

// Location returns the handoff position, or nil.
func (c CompleteDeliveryCommand) Location() *kernel.GeoPoint {
	return c.location
}
