package services

import (
	"time"

	"marketplace/internal/core/domain/model/order"
)

// ReturnEligibility decides whether an order may still be returned. The
// request command and the tracking query both go through this service, so
// the answer a buyer sees on the tracking screen is the answer the request
// endpoint gives.
type ReturnEligibility struct {
	window time.Duration
}

// NewReturnEligibility creates the service with the configured window.
// A non-positive window falls back to the 24h default.
func NewReturnEligibility(window time.Duration) ReturnEligibility {
	if window <= 0 {
		window = order.DefaultReturnWindow
	}
	return ReturnEligibility{window: window}
}

// Window returns the configured return window.
func (r ReturnEligibility) Window() time.Duration {
	return r.window
}

// IsEligible reports whether the order may open a return at the given
// moment: Delivered, inside the window, and no return requested yet.
func (r ReturnEligibility) IsEligible(o *order.Order, now time.Time) bool {
	if o.Status() != order.Delivered || o.ReturnDetails() != nil {
		return false
	}

	deliveredAt := o.DeliveryRecord().DeliveredAt()
	if deliveredAt == nil {
		return false
	}

	return order.ReturnEligibleAt(*deliveredAt, now, r.window)
}

// EligibleUntil returns the last instant a return may be requested, or the
// zero time when the order was never delivered.
func (r ReturnEligibility) EligibleUntil(o *order.Order) time.Time {
	deliveredAt := o.DeliveryRecord().DeliveredAt()
	if deliveredAt == nil {
		return time.Time{}
	}
	return deliveredAt.Add(r.window)
}
