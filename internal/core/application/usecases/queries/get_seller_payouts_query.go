package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetSellerPayoutsQueryIsNotConstructed = errors.New(
	"GetSellerPayoutsQuery must be created via NewGetSellerPayoutsQuery constructor",
)

// GetSellerPayoutsQuery retrieves the settlement history of one seller,
// newest first.
type GetSellerPayoutsQuery struct {
	guard guard.ConstructorGuard

	sellerID kernel.UUID
}

// NewGetSellerPayoutsQuery creates a payout history query for the given
// seller.
func NewGetSellerPayoutsQuery(sellerID kernel.UUID) (GetSellerPayoutsQuery, error) {
	if err := sellerID.Validate(); err != nil {
		return GetSellerPayoutsQuery{}, err
	}

	return GetSellerPayoutsQuery{
		guard:    guard.NewConstructorGuard(),
		sellerID: sellerID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSellerPayoutsQuery) Validate() error {
	return q.guard.Validate(ErrGetSellerPayoutsQueryIsNotConstructed)
}

// SellerID returns the seller whose payouts are listed.
func (q GetSellerPayoutsQuery) SellerID() kernel.UUID {
	return q.sellerID
}

// GetSellerPayoutsQueryResponse is one settlement line. The commission split
// is recomputed from the stored order total, never read back from the row.
type GetSellerPayoutsQueryResponse struct {
	PayoutID          kernel.UUID
	OrderID           kernel.UUID
	TransferID        string
	OrderTotalPaise   int64
	CommissionPaise   int64
	GstPaise          int64
	SellerAmountPaise int64
	Status            string
	Utr               string
	SettledAt         *time.Time
	ErrorCode         string
	CreatedAt         time.Time
}
