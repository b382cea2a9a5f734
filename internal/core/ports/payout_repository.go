package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
)

// PayoutRepository defines the persistence contract for payout aggregates
// and their batches.
type PayoutRepository interface {
	// Add persists a new payout.
	Add(ctx context.Context, aggregate *payout.Payout) error

	// Update persists changes to an existing payout.
	Update(ctx context.Context, aggregate *payout.Payout) error

	// Get retrieves a payout by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error)

	// GetByOrderID retrieves the payout for an order, if one exists.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payout.Payout, error)

	// GetByTransferID retrieves a payout strictly by its gateway transfer id.
	// Webhook processing resolves payouts only through this lookup.
	GetByTransferID(ctx context.Context, transferID string) (*payout.Payout, error)

	// GetAllRetryable retrieves payouts the retry job should re-submit:
	// failed transfers flagged retryable by the gateway taxonomy, and pending
	// payouts that were never submitted (held back by an unverified
	// beneficiary at processing time).
	GetAllRetryable(ctx context.Context) ([]*payout.Payout, error)

	// AddBatch persists a new payout batch.
	AddBatch(ctx context.Context, batch *payout.PayoutBatch) error

	// UpdateBatch persists changes to an existing payout batch.
	UpdateBatch(ctx context.Context, batch *payout.PayoutBatch) error

	// GetBatch retrieves a payout batch by its unique identifier.
	GetBatch(ctx context.Context, id kernel.UUID) (*payout.PayoutBatch, error)
}

// BeneficiaryRepository defines the persistence contract for seller payout
// beneficiaries.
type BeneficiaryRepository interface {
	// Add persists a new beneficiary.
	Add(ctx context.Context, aggregate *payout.Beneficiary) error

	// Update persists changes to an existing beneficiary.
	Update(ctx context.Context, aggregate *payout.Beneficiary) error

	// GetBySellerID retrieves the beneficiary registered for a seller, if
	// one exists. Each seller has at most one.
	GetBySellerID(ctx context.Context, sellerID kernel.UUID) (*payout.Beneficiary, error)
}
