package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrFailReturnPickupCommandIsNotConstructed = errors.New(
	"FailReturnPickupCommand must be created via NewFailReturnPickupCommand constructor",
)

// FailReturnPickupCommand records that the buyer could not be reached for the
// return pickup.
type FailReturnPickupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewFailReturnPickupCommand creates a failed return pickup report. A reason
// is required.
func NewFailReturnPickupCommand(orderID, agentID kernel.UUID, reason string) (FailReturnPickupCommand, error) {
	command := FailReturnPickupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return FailReturnPickupCommand{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return FailReturnPickupCommand{}, errs.NewValueIsRequiredError("reason")
	}

	command.orderID = orderID
	command.agentID = agentID
	command.reason = strings.TrimSpace(reason)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c FailReturnPickupCommand) Validate() error {
	return c.guard.Validate(ErrFailReturnPickupCommandIsNotConstructed)
}

// OrderID returns the order whose return pickup failed.
func (c FailReturnPickupCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the reporting agent.
func (c FailReturnPickupCommand) AgentID() kernel.UUID { return c.agentID }

// Reason returns why the pickup could not happen.
func (c FailReturnPickupCommand) Reason() string { return c.reason }
