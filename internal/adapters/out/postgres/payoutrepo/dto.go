// Package payoutrepo provides data transfer objects and mapping functions for
// payout, payout batch and beneficiary persistence.
package payoutrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"

	"github.com/google/uuid"
)

// PayoutDTO represents the database structure for persisting payout
// aggregates. Only the order total is stored; the commission breakdown is
// recomputed from it on restore so a stored row can never disagree with the
// commission arithmetic.
type PayoutDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	SellerID        uuid.UUID  `gorm:"type:uuid;index"`
	BeneficiaryID   uuid.UUID  `gorm:"type:uuid"`
	BatchID         *uuid.UUID `gorm:"type:uuid;index"`
	TransferID      string     `gorm:"uniqueIndex"`
	OrderTotalPaise int64
	Status          int `gorm:"index"`
	GatewayRef      string
	Utr             string
	SettledAt       *time.Time
	ErrorCode       string
	ErrorMessage    string
	Retryable       bool `gorm:"index"`
	CreatedAt       time.Time
}

// TableName specifies the database table name for payout entities.
func (PayoutDTO) TableName() string {
	return "payouts"
}

// BatchDTO represents the database structure for persisting payout batches.
type BatchDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchRef         string    `gorm:"uniqueIndex"`
	RunDate          time.Time
	PayoutCount      int
	TotalAmountPaise int64
	Status           int
	GatewayRef       string
}

// TableName specifies the database table name for payout batch entities.
func (BatchDTO) TableName() string {
	return "payout_batches"
}

// BeneficiaryDTO represents the database structure for persisting seller
// payout beneficiaries. Each seller has at most one row.
type BeneficiaryDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	GatewayRef    string
	AccountHolder string
	AccountNumber string
	Ifsc          string
	Verification  int
	CreatedAt     time.Time
}

// TableName specifies the database table name for beneficiary entities.
func (BeneficiaryDTO) TableName() string {
	return "beneficiaries"
}

// payoutFromDomain converts a payout domain aggregate to its database
// representation.
func payoutFromDomain(aggregate *payout.Payout) PayoutDTO {
	var batchID *uuid.UUID
	if id := aggregate.BatchID(); id != nil {
		raw := id.Bytes()
		batchID = &raw
	}

	return PayoutDTO{
		ID:              aggregate.ID().Bytes(),
		OrderID:         aggregate.OrderID().Bytes(),
		SellerID:        aggregate.SellerID().Bytes(),
		BeneficiaryID:   aggregate.BeneficiaryID().Bytes(),
		BatchID:         batchID,
		TransferID:      aggregate.TransferID(),
		OrderTotalPaise: aggregate.Breakdown().OrderTotal.Paise(),
		Status:          int(aggregate.Status()),
		GatewayRef:      aggregate.GatewayRef(),
		Utr:             aggregate.Utr(),
		SettledAt:       aggregate.SettledAt(),
		ErrorCode:       aggregate.ErrorCode(),
		ErrorMessage:    aggregate.ErrorMessage(),
		Retryable:       aggregate.IsRetryable(),
		CreatedAt:       aggregate.CreatedAt(),
	}
}

// payoutToDomain converts a database DTO back to a payout domain aggregate.
func payoutToDomain(dto PayoutDTO) (*payout.Payout, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	beneficiaryID, err := kernel.UUIDFromBytes(dto.BeneficiaryID[:])
	if err != nil {
		return nil, err
	}

	var batchID *kernel.UUID
	if dto.BatchID != nil {
		restored, batchErr := kernel.UUIDFromBytes((*dto.BatchID)[:])
		if batchErr != nil {
			return nil, batchErr
		}
		batchID = &restored
	}

	orderTotal, err := kernel.NewMoney(dto.OrderTotalPaise)
	if err != nil {
		return nil, err
	}

	return payout.RestorePayout(
		id,
		orderID,
		sellerID,
		beneficiaryID,
		batchID,
		dto.TransferID,
		payout.ComputeCommission(orderTotal),
		payout.TransferStatus(dto.Status),
		dto.GatewayRef,
		dto.Utr,
		dto.SettledAt,
		dto.ErrorCode,
		dto.ErrorMessage,
		dto.Retryable,
		dto.CreatedAt,
	)
}

// batchFromDomain converts a payout batch aggregate to its database
// representation.
func batchFromDomain(aggregate *payout.PayoutBatch) BatchDTO {
	return BatchDTO{
		ID:               aggregate.ID().Bytes(),
		BatchRef:         aggregate.BatchRef(),
		RunDate:          aggregate.RunDate(),
		PayoutCount:      aggregate.PayoutCount(),
		TotalAmountPaise: aggregate.TotalAmount().Paise(),
		Status:           int(aggregate.Status()),
		GatewayRef:       aggregate.GatewayRef(),
	}
}

// batchToDomain converts a database DTO back to a payout batch aggregate.
func batchToDomain(dto BatchDTO) (*payout.PayoutBatch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	totalAmount, err := kernel.NewMoney(dto.TotalAmountPaise)
	if err != nil {
		return nil, err
	}

	return payout.RestorePayoutBatch(
		id,
		dto.BatchRef,
		dto.RunDate,
		dto.PayoutCount,
		totalAmount,
		payout.TransferStatus(dto.Status),
		dto.GatewayRef,
	)
}

// beneficiaryFromDomain converts a beneficiary aggregate to its database
// representation.
func beneficiaryFromDomain(aggregate *payout.Beneficiary) BeneficiaryDTO {
	return BeneficiaryDTO{
		ID:            aggregate.ID().Bytes(),
		SellerID:      aggregate.SellerID().Bytes(),
		GatewayRef:    aggregate.GatewayRef(),
		AccountHolder: aggregate.AccountHolder(),
		AccountNumber: aggregate.AccountNumber(),
		Ifsc:          aggregate.Ifsc(),
		Verification:  int(aggregate.Verification()),
		CreatedAt:     aggregate.CreatedAt(),
	}
}

// beneficiaryToDomain converts a database DTO back to a beneficiary aggregate.
func beneficiaryToDomain(dto BeneficiaryDTO) (*payout.Beneficiary, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	return payout.RestoreBeneficiary(
		id,
		sellerID,
		dto.GatewayRef,
		dto.AccountHolder,
		dto.AccountNumber,
		dto.Ifsc,
		payout.VerificationStatus(dto.Verification),
		dto.CreatedAt,
	)
}
