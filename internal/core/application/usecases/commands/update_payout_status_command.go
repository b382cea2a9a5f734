package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrUpdatePayoutStatusCommandIsNotConstructed = errors.New(
	"UpdatePayoutStatusCommand must be created via NewUpdatePayoutStatusCommand constructor",
)

// UpdatePayoutStatusCommand applies a payment gateway webhook event to the
// payout it names. The transfer id is the only lookup key; unknown statuses
// are rejected at construction.
type UpdatePayoutStatusCommand struct { //nolint:recvcheck //using for validation
	transferID   string
	status       payout.TransferStatus
	utr          string
	errorCode    string
	errorMessage string

	guard guard.ConstructorGuard
}

// NewUpdatePayoutStatusCommand creates a webhook status update. The raw
// gateway status string is mapped to the local vocabulary here so handlers
// only ever see valid statuses.
func NewUpdatePayoutStatusCommand(
	transferID string,
	gatewayStatus string,
	utr string,
	errorCode string,
	errorMessage string,
) (UpdatePayoutStatusCommand, error) {
	command := UpdatePayoutStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	transferID = strings.TrimSpace(transferID)
	if transferID == "" {
		return UpdatePayoutStatusCommand{}, errs.NewValueIsRequiredError("transfer id")
	}

	status := payout.MapGatewayStatus(gatewayStatus)
	if err := status.Validate(); err != nil {
		return UpdatePayoutStatusCommand{}, err
	}

	command.transferID = transferID
	command.status = status
	command.utr = strings.TrimSpace(utr)
	command.errorCode = strings.TrimSpace(errorCode)
	command.errorMessage = strings.TrimSpace(errorMessage)
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdatePayoutStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePayoutStatusCommandIsNotConstructed)
}

// TransferID returns the gateway transfer identifier.
func (c UpdatePayoutStatusCommand) TransferID() string { return c.transferID }

// Status returns the mapped transfer status.
func (c UpdatePayoutStatusCommand) Status() payout.TransferStatus { return c.status }

// Utr returns the bank's settlement reference, when the event carried one.
func (c UpdatePayoutStatusCommand) Utr() string { return c.utr }

// ErrorCode returns the gateway's failure code, when the event carried one.
func (c UpdatePayoutStatusCommand) ErrorCode() string { return c.errorCode }

// ErrorMessage returns the gateway's failure message.
func (c UpdatePayoutStatusCommand) ErrorMessage() string { return c.errorMessage }
