package payout

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrPayoutIsNotConstructed is returned when a Payout instance was not created
// through NewPayout or RestorePayout.
var ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout or RestorePayout constructor")

// Payout is one seller's net earnings transfer for a single order. It is a
// top-level aggregate referencing Order and Beneficiary by id — never embedded
// in the order — because it must survive independent retry and reconciliation
// after the order itself reaches a terminal state.
//
// Invariants:
//   - the transfer identifier is unique and derived from the order number
//   - the commission split satisfies sellerAmount + commission + gst == orderAmount
//   - a terminal status never regresses; re-applying it is a no-op
type Payout struct {
	id            kernel.UUID
	orderID       kernel.UUID
	sellerID      kernel.UUID
	beneficiaryID kernel.UUID
	batchID       *kernel.UUID
	transferID    string
	breakdown     CommissionBreakdown
	status        TransferStatus
	gatewayRef    string
	utr           string
	settledAt     *time.Time
	errorCode     string
	errorMessage  string
	retryable     bool
	createdAt     time.Time
	guard         guard.ConstructorGuard
}

// NewPayout creates a pending payout for an order. The commission breakdown is
// computed by the caller via ComputeCommission from the order total.
func NewPayout(
	id kernel.UUID,
	orderID kernel.UUID,
	sellerID kernel.UUID,
	beneficiaryID kernel.UUID,
	transferID string,
	breakdown CommissionBreakdown,
	now time.Time,
) (*Payout, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		sellerID.Validate(),
		beneficiaryID.Validate(),
	); err != nil {
		return nil, err
	}
	if strings.TrimSpace(transferID) == "" {
		return nil, errs.NewValueIsRequiredError("transfer id")
	}
	if breakdown.SellerAmount.IsNegative() {
		return nil, errs.NewValueIsInvalidError("seller amount")
	}

	return &Payout{
		id:            id,
		orderID:       orderID,
		sellerID:      sellerID,
		beneficiaryID: beneficiaryID,
		transferID:    transferID,
		breakdown:     breakdown,
		status:        TransferPending,
		createdAt:     now,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestorePayout reconstructs a Payout from persistent storage.
func RestorePayout(
	id kernel.UUID,
	orderID kernel.UUID,
	sellerID kernel.UUID,
	beneficiaryID kernel.UUID,
	batchID *kernel.UUID,
	transferID string,
	breakdown CommissionBreakdown,
	status TransferStatus,
	gatewayRef string,
	utr string,
	settledAt *time.Time,
	errorCode string,
	errorMessage string,
	retryable bool,
	createdAt time.Time,
) (*Payout, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	payout, err := NewPayout(id, orderID, sellerID, beneficiaryID, transferID, breakdown, createdAt)
	if err != nil {
		return nil, err
	}

	payout.batchID = batchID
	payout.status = status
	payout.gatewayRef = gatewayRef
	payout.utr = utr
	payout.settledAt = settledAt
	payout.errorCode = errorCode
	payout.errorMessage = errorMessage
	payout.retryable = retryable
	return payout, nil
}

// Validate ensures the Payout was constructed through a constructor.
func (p *Payout) Validate() error {
	if p == nil {
		return ErrPayoutIsNotConstructed
	}
	return p.guard.Validate(ErrPayoutIsNotConstructed)
}

// ID returns the payout's unique identifier.
func (p *Payout) ID() kernel.UUID { return p.id }

// OrderID returns the source order's identifier.
func (p *Payout) OrderID() kernel.UUID { return p.orderID }

// SellerID returns the seller being paid.
func (p *Payout) SellerID() kernel.UUID { return p.sellerID }

// BeneficiaryID returns the bank destination for the transfer.
func (p *Payout) BeneficiaryID() kernel.UUID { return p.beneficiaryID }

// BatchID returns the owning batch's identifier, or nil for single transfers.
func (p *Payout) BatchID() *kernel.UUID { return p.batchID }

// TransferID returns the idempotent transfer identifier submitted to the gateway.
func (p *Payout) TransferID() string { return p.transferID }

// Breakdown returns the commission split for this payout.
func (p *Payout) Breakdown() CommissionBreakdown { return p.breakdown }

// Status returns the current transfer status.
func (p *Payout) Status() TransferStatus { return p.status }

// GatewayRef returns the gateway's transfer identifier once acknowledged.
func (p *Payout) GatewayRef() string { return p.gatewayRef }

// Utr returns the bank settlement reference for a completed transfer.
func (p *Payout) Utr() string { return p.utr }

// SettledAt returns the settlement timestamp for a completed transfer.
func (p *Payout) SettledAt() *time.Time { return p.settledAt }

// ErrorCode returns the gateway error code for a failed transfer.
func (p *Payout) ErrorCode() string { return p.errorCode }

// ErrorMessage returns the gateway error message for a failed transfer.
func (p *Payout) ErrorMessage() string { return p.errorMessage }

// IsRetryable reports whether a failed transfer may be re-submitted
// automatically by the retry job.
func (p *Payout) IsRetryable() bool { return p.retryable }

// CreatedAt returns the creation timestamp.
func (p *Payout) CreatedAt() time.Time { return p.createdAt }

// AttachToBatch links this payout to a batch transfer run.
func (p *Payout) AttachToBatch(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}
	p.batchID = &batchID
	return nil
}

// MarkSubmitted records the gateway's synchronous answer to the transfer
// submission.
func (p *Payout) MarkSubmitted(gatewayRef string, status TransferStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.gatewayRef = gatewayRef
	p.status = status
	return nil
}

// MarkSubmissionFailed records an exhausted-retries submission failure so a
// reconciliation job can find it later.
func (p *Payout) MarkSubmissionFailed(errorCode, errorMessage string) {
	p.status = TransferFailed
	p.errorCode = errorCode
	p.errorMessage = errorMessage
	p.retryable = IsRetryableGatewayError(errorCode)
}

// ApplyGatewayStatus applies a webhook-driven status correction. Safe to call
// more than once for the same event: re-applying the current terminal status
// is a no-op, and once a terminal status is recorded no later event can
// regress it. Returns true when the payout actually changed.
func (p *Payout) ApplyGatewayStatus(
	status TransferStatus,
	utr string,
	errorCode string,
	errorMessage string,
	now time.Time,
) (bool, error) {
	if err := status.Validate(); err != nil {
		return false, err
	}

	if p.status.IsTerminal() {
		return false, nil
	}

	p.status = status
	switch status {
	case TransferCompleted:
		p.utr = utr
		settled := now
		p.settledAt = &settled
		p.errorCode = ""
		p.errorMessage = ""
		p.retryable = false
	case TransferFailed:
		p.errorCode = errorCode
		p.errorMessage = errorMessage
		p.retryable = IsRetryableGatewayError(errorCode)
	}

	return true, nil
}

// PrepareRetry resets a failed retryable payout to pending so the retry job
// can re-submit it under the same transfer identifier.
func (p *Payout) PrepareRetry() error {
	if p.status != TransferFailed || !p.retryable {
		return errs.NewBusinessError(errs.CodeTransferFailed,
			"payout is not in a retryable failed state")
	}
	p.status = TransferPending
	p.errorCode = ""
	p.errorMessage = ""
	p.retryable = false
	return nil
}
