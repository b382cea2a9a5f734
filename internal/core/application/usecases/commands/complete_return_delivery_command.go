package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCompleteReturnDeliveryCommandIsNotConstructed = errors.New(
	"CompleteReturnDeliveryCommand must be created via NewCompleteReturnDeliveryCommand constructor",
)

// CompleteReturnDeliveryCommand is the return agent handing the package back
// to the seller.
type CompleteReturnDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	agentID  kernel.UUID
	notes    string
	location *kernel.GeoPoint
	otpCode  string

	guard guard.ConstructorGuard
}

// NewCompleteReturnDeliveryCommand creates a return delivery confirmation.
// The OTP code is optional; the handler decides whether one is required.
func NewCompleteReturnDeliveryCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	notes string,
	location *kernel.GeoPoint,
	otpCode string,
) (CompleteReturnDeliveryCommand, error) {
	command := CompleteReturnDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return CompleteReturnDeliveryCommand{}, err
	}

	command.orderID = orderID
	command.agentID = agentID
	command.notes = strings.TrimSpace(notes)
	command.location = location
	command.otpCode = strings.TrimSpace(otpCode)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteReturnDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteReturnDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being returned.
func (c CompleteReturnDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the agent handing the package back.
func (c CompleteReturnDeliveryCommand) AgentID() kernel.UUID { return c.agentID }

// Notes returns the agent's free-form drop notes.
func (c CompleteReturnDeliveryCommand) Notes() string { return c.notes }

// Location returns where the handoff happened, when the device reported it.
func (c CompleteReturnDeliveryCommand) Location() *kernel.GeoPoint { return c.location }

// OtpCode returns the seller's confirmation code, empty when none was given.
func (c CompleteReturnDeliveryCommand) OtpCode() string { return c.otpCode }
