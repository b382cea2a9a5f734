package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRespondAssignmentCommandIsNotConstructed = errors.New(
	"RespondAssignmentCommand must be created via NewRespondAssignmentCommand constructor",
)

// RespondAssignmentCommand is the assigned agent accepting or declining an
// offered order. Declines carry a reason for dispatch analytics.
type RespondAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID
	accept  bool
	reason  string

	guard guard.ConstructorGuard
}

// NewRespondAssignmentCommand creates an assignment response. A decline
// without a reason is rejected; an accept ignores the reason.
func NewRespondAssignmentCommand(
	orderID kernel.UUID,
	agentID kernel.UUID,
	accept bool,
	reason string,
) (RespondAssignmentCommand, error) {
	command := RespondAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return RespondAssignmentCommand{}, err
	}
	if !accept && strings.TrimSpace(reason) == "" {
		return RespondAssignmentCommand{}, errs.NewValueIsRequiredError("reason")
	}

	command.orderID = orderID
	command.agentID = agentID
	command.accept = accept
	command.reason = strings.TrimSpace(reason)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondAssignmentCommandIsNotConstructed)
}

// OrderID returns the offered order.
func (c RespondAssignmentCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the responding agent.
func (c RespondAssignmentCommand) AgentID() kernel.UUID { return c.agentID }

// Accept reports whether the agent takes the job.
func (c RespondAssignmentCommand) Accept() bool { return c.accept }

// Reason returns the decline reason, empty on accept.
func (c RespondAssignmentCommand) Reason() string { return c.reason }
