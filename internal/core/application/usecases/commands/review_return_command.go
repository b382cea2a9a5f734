package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReviewReturnCommandIsNotConstructed = errors.New(
	"ReviewReturnCommand must be created via NewReviewReturnCommand constructor",
)

// ReviewReturnCommand is an admin approving or rejecting a return request.
type ReviewReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	approve bool
	note    string

	guard guard.ConstructorGuard
}

// NewReviewReturnCommand creates a return review command. Rejections require
// a note so the buyer learns why.
func NewReviewReturnCommand(orderID kernel.UUID, approve bool, note string) (ReviewReturnCommand, error) {
	command := ReviewReturnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return ReviewReturnCommand{}, err
	}
	if !approve && strings.TrimSpace(note) == "" {
		return ReviewReturnCommand{}, errs.NewValueIsRequiredError("note")
	}

	command.orderID = orderID
	command.approve = approve
	command.note = strings.TrimSpace(note)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewReturnCommand) Validate() error {
	return c.guard.Validate(ErrReviewReturnCommandIsNotConstructed)
}

// OrderID returns the order under review.
func (c ReviewReturnCommand) OrderID() kernel.UUID { return c.orderID }

// Approve reports the admin's verdict.
func (c ReviewReturnCommand) Approve() bool { return c.approve }

// Note returns the review note.
func (c ReviewReturnCommand) Note() string { return c.note }
