package payout

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

const (
	// PlatformCommissionBasisPoints is the platform's cut of the order total: 8%.
	PlatformCommissionBasisPoints = 800

	// GstOnCommissionBasisPoints is the tax applied to the commission (not to
	// the full order): 18%.
	GstOnCommissionBasisPoints = 1800
)

// CommissionBreakdown is the deterministic split of an order total into the
// platform's commission, the tax on that commission, and the seller's net
// amount. It is recomputed from the order total at both single-transfer and
// batch-transfer time, never stored and trusted.
type CommissionBreakdown struct {
	OrderTotal         kernel.Money
	PlatformCommission kernel.Money
	Gst                kernel.Money
	SellerAmount       kernel.Money
}

// ComputeCommission splits an order total. Integer basis-point arithmetic with
// truncation keeps the result reproducible from the total alone, and the
// seller amount is derived by subtraction so the identity
//
//	SellerAmount + PlatformCommission + Gst == OrderTotal
//
// holds for every total, including zero.
func ComputeCommission(orderTotal kernel.Money) CommissionBreakdown {
	commission := orderTotal.MulBasisPoints(PlatformCommissionBasisPoints)
	gst := commission.MulBasisPoints(GstOnCommissionBasisPoints)
	sellerAmount := orderTotal.Sub(commission).Sub(gst)

	return CommissionBreakdown{
		OrderTotal:         orderTotal,
		PlatformCommission: commission,
		Gst:                gst,
		SellerAmount:       sellerAmount,
	}
}

// TransferIDForOrder derives the globally unique transfer identifier for a
// single-order payout. Deriving it from the order number makes gateway retries
// naturally idempotent: the gateway deduplicates on the transfer id.
func TransferIDForOrder(orderNumber string) string {
	return "PAYOUT_" + orderNumber
}

// BatchRef derives the external batch transfer identifier for a payout run.
// The suffix disambiguates multiple runs on the same day.
func BatchRef(runDate time.Time, suffix string) string {
	return fmt.Sprintf("BATCH_%s_%s", runDate.Format("20060102"), suffix)
}
