package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAssignReturnAgentCommandIsNotConstructed = errors.New(
	"AssignReturnAgentCommand must be created via NewAssignReturnAgentCommand constructor",
)

// AssignReturnAgentCommand assigns a reverse-logistics agent to an approved
// return.
type AssignReturnAgentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignReturnAgentCommand creates a return agent assignment command.
func NewAssignReturnAgentCommand(orderID, agentID kernel.UUID) (AssignReturnAgentCommand, error) {
	command := AssignReturnAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return AssignReturnAgentCommand{}, err
	}

	command.orderID = orderID
	command.agentID = agentID
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignReturnAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignReturnAgentCommandIsNotConstructed)
}

// OrderID returns the order whose return gets an agent.
func (c AssignReturnAgentCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the chosen agent.
func (c AssignReturnAgentCommand) AgentID() kernel.UUID { return c.agentID }
