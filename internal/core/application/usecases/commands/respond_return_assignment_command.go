package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRespondReturnAssignmentCommandIsNotConstructed = errors.New(
	"RespondReturnAssignmentCommand must be created via NewRespondReturnAssignmentCommand constructor",
)

// RespondReturnAssignmentCommand is the return agent accepting or declining
// the offered return trip.
type RespondReturnAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID
	accept  bool
	reason  string

	guard guard.ConstructorGuard
}

// NewRespondReturnAssignmentCommand creates a return assignment response.
func NewRespondReturnAssignmentCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	accept bool,
	reason string,
) (RespondReturnAssignmentCommand, error) {
	command := RespondReturnAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return RespondReturnAssignmentCommand{}, err
	}
	if !accept && strings.TrimSpace(reason) == "" {
		return RespondReturnAssignmentCommand{}, errs.NewValueIsRequiredError("reason")
	}

	command.orderID = orderID
	command.agentID = agentID
	command.accept = accept
	command.reason = strings.TrimSpace(reason)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondReturnAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondReturnAssignmentCommandIsNotConstructed)
}

// OrderID returns the order whose return was offered.
func (c RespondReturnAssignmentCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the responding agent.
func (c RespondReturnAssignmentCommand) AgentID() kernel.UUID { return c.agentID }

// Accept reports whether the agent takes the trip.
func (c RespondReturnAssignmentCommand) Accept() bool { return c.accept }

// Reason returns the decline reason, empty on accept.
func (c RespondReturnAssignmentCommand) Reason() string { return c.reason }
