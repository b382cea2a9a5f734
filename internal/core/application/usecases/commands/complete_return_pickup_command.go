package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCompleteReturnPickupCommandIsNotConstructed = errors.New(
	"CompleteReturnPickupCommand must be created via NewCompleteReturnPickupCommand constructor",
)

// CompleteReturnPickupCommand is the return agent confirming they collected
// the package from the buyer. The OTP code is optional; whether it is
// required is a deployment decision enforced by the handler.
type CompleteReturnPickupCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	agentID  kernel.UUID
	notes    string
	location *kernel.GeoPoint
	otpCode  string

	guard guard.ConstructorGuard
}

// NewCompleteReturnPickupCommand creates a return pickup confirmation.
func NewCompleteReturnPickupCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	notes string,
	location *kernel.GeoPoint,
	otpCode string,
) (CompleteReturnPickupCommand, error) {
	command := CompleteReturnPickupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return CompleteReturnPickupCommand{}, err
	}

	command.orderID = orderID
	command.agentID = agentID
	command.notes = notes
	command.location = location
	command.otpCode = strings.TrimSpace(otpCode)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteReturnPickupCommand) Validate() error {
	return c.guard.Validate(ErrCompleteReturnPickupCommandIsNotConstructed)
}

// OrderID returns the order whose return is collected.
func (c CompleteReturnPickupCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the collecting agent.
func (c CompleteReturnPickupCommand) AgentID() kernel.UUID { return c.agentID }

// Notes returns the agent's free-form notes.
func (c CompleteReturnPickupCommand) Notes() string { return c.notes }

// Location returns the collection point, or nil.
func (c CompleteReturnPickupCommand) Location() *kernel.GeoPoint { return c.location }

// OtpCode returns the buyer's code, empty when not collected.
func (c CompleteReturnPickupCommand) OtpCode() string { return c.otpCode }
