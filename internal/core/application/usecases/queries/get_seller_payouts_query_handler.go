package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSellerPayoutsQueryHandler serves a seller's settlement history straight
// from the payouts table.
type GetSellerPayoutsQueryHandler struct {
	db *gorm.DB
}

// NewGetSellerPayoutsQueryHandler creates a handler for seller payout
// queries.
func NewGetSellerPayoutsQueryHandler(db *gorm.DB) GetSellerPayoutsQueryHandler {
	return GetSellerPayoutsQueryHandler{db: db}
}

// Handle executes the payout history query for one seller, newest first.
func (h GetSellerPayoutsQueryHandler) Handle(
	ctx context.Context,
	query GetSellerPayoutsQuery,
) ([]GetSellerPayoutsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	payouts := make([]GetSellerPayoutsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			transfer_id,
			order_total_paise,
			status,
			utr,
			settled_at,
			error_code,
			created_at
		FROM payouts
		WHERE seller_id = ?
		ORDER BY created_at DESC
	`, query.SellerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id              uuid.UUID
			orderID         uuid.UUID
			transferID      string
			orderTotalPaise int64
			status          int
			utr             string
			settledAt       *time.Time
			errorCode       string
			createdAt       time.Time
		)
		err = rows.Scan(
			&id,
			&orderID,
			&transferID,
			&orderTotalPaise,
			&status,
			&utr,
			&settledAt,
			&errorCode,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		payoutID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderUUID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderTotal, moneyErr := kernel.NewMoney(orderTotalPaise)
		if moneyErr != nil {
			return nil, moneyErr
		}
		breakdown := payout.ComputeCommission(orderTotal)

		payouts = append(payouts, GetSellerPayoutsQueryResponse{
			PayoutID:          payoutID,
			OrderID:           orderUUID,
			TransferID:        transferID,
			OrderTotalPaise:   orderTotalPaise,
			CommissionPaise:   breakdown.PlatformCommission.Paise(),
			GstPaise:          breakdown.Gst.Paise(),
			SellerAmountPaise: breakdown.SellerAmount.Paise(),
			Status:            payout.TransferStatus(status).String(),
			Utr:               utr,
			SettledAt:         settledAt,
			ErrorCode:         errorCode,
			CreatedAt:         createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return payouts, nil
}
