// Package otprepo provides data transfer objects and mapping functions for
// the durable OTP verification audit trail. Rows are appended and marked,
// never deleted.
package otprepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"

	"github.com/google/uuid"
)

// VerificationDTO represents the database structure for persisting OTP
// verification audit rows.
type VerificationDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index"`
	Phone             string
	Purpose           string `gorm:"index"`
	Status            string `gorm:"index"`
	ProviderMessageID string
	CreatedAt         time.Time
	ExpiresAt         time.Time `gorm:"index"`
	ResolvedAt        *time.Time
}

// TableName specifies the database table name for verification entities.
func (VerificationDTO) TableName() string {
	return "otp_verifications"
}

// fromDomain converts a verification aggregate to its database representation.
func fromDomain(aggregate *otp.Verification) VerificationDTO {
	return VerificationDTO{
		ID:                aggregate.ID().Bytes(),
		OrderID:           aggregate.OrderID().Bytes(),
		Phone:             aggregate.Phone().String(),
		Purpose:           string(aggregate.Purpose()),
		Status:            string(aggregate.Status()),
		ProviderMessageID: aggregate.ProviderMessageID(),
		CreatedAt:         aggregate.CreatedAt(),
		ExpiresAt:         aggregate.ExpiresAt(),
		ResolvedAt:        aggregate.ResolvedAt(),
	}
}

// toDomain converts a database DTO back to a verification aggregate.
func toDomain(dto VerificationDTO) (*otp.Verification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}

	return otp.RestoreVerification(
		id,
		orderID,
		phone,
		otp.Purpose(dto.Purpose),
		otp.VerificationStatus(dto.Status),
		dto.ProviderMessageID,
		dto.CreatedAt,
		dto.ExpiresAt,
		dto.ResolvedAt,
	)
}
