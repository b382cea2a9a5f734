package payout

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrPayoutBatchIsNotConstructed is returned when a PayoutBatch instance was
// not created through NewPayoutBatch or RestorePayoutBatch.
var ErrPayoutBatchIsNotConstructed = errors.New(
	"PayoutBatch must be created via NewPayoutBatch or RestorePayoutBatch constructor")

// PayoutBatch groups the payouts created in one batch run under a single
// external batch transfer identifier. The batch carries only run-level
// aggregates; individual transfers stay on their Payout records.
type PayoutBatch struct {
	id          kernel.UUID
	batchRef    string
	runDate     time.Time
	payoutCount int
	totalAmount kernel.Money
	status      TransferStatus
	gatewayRef  string
	guard       guard.ConstructorGuard
}

// NewPayoutBatch creates an empty batch for a run date. Payout totals are
// accumulated with Include as transfer entries are built.
func NewPayoutBatch(id kernel.UUID, batchRef string, runDate time.Time) (*PayoutBatch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(batchRef) == "" {
		return nil, errs.NewValueIsRequiredError("batch ref")
	}

	return &PayoutBatch{
		id:       id,
		batchRef: batchRef,
		runDate:  runDate,
		status:   TransferPending,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// RestorePayoutBatch reconstructs a PayoutBatch from persistent storage.
func RestorePayoutBatch(
	id kernel.UUID,
	batchRef string,
	runDate time.Time,
	payoutCount int,
	totalAmount kernel.Money,
	status TransferStatus,
	gatewayRef string,
) (*PayoutBatch, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	batch, err := NewPayoutBatch(id, batchRef, runDate)
	if err != nil {
		return nil, err
	}

	batch.payoutCount = payoutCount
	batch.totalAmount = totalAmount
	batch.status = status
	batch.gatewayRef = gatewayRef
	return batch, nil
}

// Validate ensures the PayoutBatch was constructed through a constructor.
func (b *PayoutBatch) Validate() error {
	if b == nil {
		return ErrPayoutBatchIsNotConstructed
	}
	return b.guard.Validate(ErrPayoutBatchIsNotConstructed)
}

// ID returns the batch's unique identifier.
func (b *PayoutBatch) ID() kernel.UUID { return b.id }

// BatchRef returns the external batch transfer identifier.
func (b *PayoutBatch) BatchRef() string { return b.batchRef }

// RunDate returns the date the batch run was executed for.
func (b *PayoutBatch) RunDate() time.Time { return b.runDate }

// PayoutCount returns the number of payouts in the batch.
func (b *PayoutBatch) PayoutCount() int { return b.payoutCount }

// TotalAmount returns the sum of the seller amounts in the batch.
func (b *PayoutBatch) TotalAmount() kernel.Money { return b.totalAmount }

// Status returns the aggregate transfer status of the run.
func (b *PayoutBatch) Status() TransferStatus { return b.status }

// GatewayRef returns the gateway's batch identifier once acknowledged.
func (b *PayoutBatch) GatewayRef() string { return b.gatewayRef }

// Include adds one payout's seller amount to the batch totals.
func (b *PayoutBatch) Include(sellerAmount kernel.Money) {
	b.payoutCount++
	b.totalAmount = b.totalAmount.Add(sellerAmount)
}

// MarkSubmitted records the gateway's synchronous answer to the batch
// submission.
func (b *PayoutBatch) MarkSubmitted(gatewayRef string, status TransferStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	b.gatewayRef = gatewayRef
	b.status = status
	return nil
}
