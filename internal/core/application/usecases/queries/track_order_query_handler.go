package queries

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackOrderQueryHandler serves the buyer-facing tracking view straight from
// the orders table.
type TrackOrderQueryHandler struct {
	db          *gorm.DB
	eligibility services.ReturnEligibility
}

// NewTrackOrderQueryHandler creates a handler for order tracking queries.
// The eligibility service must be the same one the return-request command
// uses.
func NewTrackOrderQueryHandler(db *gorm.DB, eligibility services.ReturnEligibility) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db, eligibility: eligibility}
}

// Handle executes the tracking query for one order number.
func (h TrackOrderQueryHandler) Handle(
	ctx context.Context,
	query TrackOrderQuery,
) (TrackOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackOrderQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			is_paid,
			total_paise,
			delivery_delivered_at,
			cancellation_cancelled_at,
			return_status,
			payout_processed,
			payout_status,
			timeline
		FROM orders
		WHERE order_number = ?
	`, query.OrderNumber()).Rows()
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return TrackOrderQueryResponse{}, err
		}
		return TrackOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderNumber())
	}

	var (
		id              uuid.UUID
		orderNumber     string
		status          int
		isPaid          bool
		totalPaise      int64
		deliveredAt     *time.Time
		cancelledAt     *time.Time
		returnStatus    int
		payoutProcessed bool
		payoutStatus    int
		timelineJSON    []byte
	)
	err = rows.Scan(
		&id,
		&orderNumber,
		&status,
		&isPaid,
		&totalPaise,
		&deliveredAt,
		&cancelledAt,
		&returnStatus,
		&payoutProcessed,
		&payoutStatus,
		&timelineJSON,
	)
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}
	if err = rows.Err(); err != nil {
		return TrackOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}

	var timeline []TrackOrderTimelineEntry
	if len(timelineJSON) > 0 {
		if err = json.Unmarshal(timelineJSON, &timeline); err != nil {
			return TrackOrderQueryResponse{}, err
		}
	}

	resp := TrackOrderQueryResponse{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Status:      order.Status(status).String(),
		IsPaid:      isPaid,
		TotalPaise:  totalPaise,
		DeliveredAt: deliveredAt,
		CancelledAt: cancelledAt,
		Timeline:    timeline,
	}
	if returnStatus != int(order.ReturnStatusUnknown) {
		resp.ReturnStatus = order.ReturnStatus(returnStatus).String()
	}
	if payoutProcessed {
		resp.PayoutStatus = payout.TransferStatus(payoutStatus).String()
	}

	// Same predicate as the return-request command: delivered, no return yet,
	// inside the window.
	if order.Status(status) == order.Delivered && returnStatus == int(order.ReturnStatusUnknown) && deliveredAt != nil {
		resp.ReturnOpen = order.ReturnEligibleAt(*deliveredAt, time.Now(), h.eligibility.Window())
		closes := deliveredAt.Add(h.eligibility.Window())
		resp.ReturnCloses = &closes
	}

	return resp, nil
}
