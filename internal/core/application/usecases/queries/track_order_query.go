// Package queries contains the read side of the application: raw-SQL read
// models that bypass the aggregates and repositories entirely.
package queries

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrTrackOrderQueryIsNotConstructed = errors.New(
	"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
)

// TrackOrderQuery retrieves the buyer-facing tracking view of one order by
// its human-readable number.
type TrackOrderQuery struct {
	guard guard.ConstructorGuard

	orderNumber string
}

// NewTrackOrderQuery creates a tracking query for the given order number.
func NewTrackOrderQuery(orderNumber string) (TrackOrderQuery, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return TrackOrderQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}

	return TrackOrderQuery{
		guard:       guard.NewConstructorGuard(),
		orderNumber: orderNumber,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

// OrderNumber returns the human-readable order number being tracked.
func (q TrackOrderQuery) OrderNumber() string {
	return q.orderNumber
}

// TrackOrderTimelineEntry is one audit line in the tracking view.
type TrackOrderTimelineEntry struct {
	Status string    `json:"status"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// TrackOrderQueryResponse is the tracking view of one order. Return
// eligibility is computed with the same predicate the return-request command
// uses, so the view never promises a return the command would refuse.
type TrackOrderQueryResponse struct {
	OrderID      kernel.UUID
	OrderNumber  string
	Status       string
	IsPaid       bool
	TotalPaise   int64
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	ReturnStatus string
	PayoutStatus string
	Timeline     []TrackOrderTimelineEntry
	ReturnOpen   bool
	ReturnCloses *time.Time
}
