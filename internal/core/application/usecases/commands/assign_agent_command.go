package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand assigns a delivery agent to a pickup-ready order. With
// an explicit agent id the admin picked someone; without one the dispatcher
// chooses from the available pool.
type AssignAgentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates an explicit assignment command.
func NewAssignAgentCommand(orderID kernel.UUID, agentID kernel.UUID) (AssignAgentCommand, error) {
	command := AssignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return AssignAgentCommand{}, err
	}

	command.orderID = orderID
	command.agentID = &agentID
	return command, nil
}

// NewAutoAssignAgentCommand creates a command that lets the dispatcher pick
// the agent.
func NewAutoAssignAgentCommand(orderID kernel.UUID) (AssignAgentCommand, error) {
	command := AssignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return AssignAgentCommand{}, err
	}

	command.orderID = orderID
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignAgentCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the explicitly chosen agent, or nil for auto dispatch.
func (c AssignAgentCommand) AgentID() *kernel.UUID { return c.agentID }
