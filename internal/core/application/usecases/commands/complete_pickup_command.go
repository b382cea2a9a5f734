package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCompletePickupCommandIsNotConstructed = errors.New(
	"CompletePickupCommand must be created via NewCompletePickupCommand constructor",
)

// CompletePickupCommand represents a delivery agent confirming they collected
// the package from the seller. The orderIDVerification string is the agent's
// plain-text reading of the order number printed on the package; the handler
// never trusts it without matching it against the stored number.
type CompletePickupCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	agentID             kernel.UUID
	orderIDVerification string
	notes               string

	guard guard.ConstructorGuard
}

// NewCompletePickupCommand creates a pickup confirmation command. The
// verification string is passed through untouched; trimming and matching are
// the aggregate's job so the rules live in one place.
func NewCompletePickupCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	orderIDVerification string,
	notes string,
) (CompletePickupCommand, error) {
	command := CompletePickupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setAgentID(agentID),
	); err != nil {
		return CompletePickupCommand{}, err
	}

	command.orderIDVerification = orderIDVerification
	command.notes = notes
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePickupCommand) Validate() error {
	return c.guard.Validate(ErrCompletePickupCommandIsNotConstructed)
}

// OrderID returns the order being picked up.
func (c CompletePickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the agent confirming the pickup.
func (c CompletePickupCommand) AgentID() kernel.UUID {
	return c.agentID
}

// OrderIDVerification returns the agent's plain-text order number reading.
func (c CompletePickupCommand) OrderIDVerification() string {
	return c.orderIDVerification
}

// Notes returns the agent's free-form pickup notes.
func (c CompletePickupCommand) Notes() string {
	return c.notes
}

func (c *CompletePickupCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CompletePickupCommand) setAgentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.agentID = id
	return nil
}
