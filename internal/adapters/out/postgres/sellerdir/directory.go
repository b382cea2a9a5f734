// Package sellerdir provides a read-only postgres lookup of seller contact
// and bank details. Sellers are managed by a separate system; the fulfilment
// core only reads the rows it needs for beneficiary registration and return
// notifications.
package sellerdir

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SellerDTO represents the seller row shape this adapter reads.
type SellerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	Email       string
	Phone       string
	BankAccount string
	Ifsc        string
	Address     string
}

// TableName specifies the database table name for seller entities.
func (SellerDTO) TableName() string {
	return "sellers"
}

// GormSellerDirectory implements SellerDirectory using GORM.
type GormSellerDirectory struct {
	db *gorm.DB
}

// NewGormSellerDirectory creates a new GORM seller directory.
func NewGormSellerDirectory(db *gorm.DB) *GormSellerDirectory {
	return &GormSellerDirectory{db: db}
}

// GetSeller retrieves a seller's contact and bank details.
func (d *GormSellerDirectory) GetSeller(ctx context.Context, sellerID kernel.UUID) (ports.SellerContact, error) {
	if err := sellerID.Validate(); err != nil {
		return ports.SellerContact{}, err
	}

	var dto SellerDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", sellerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SellerContact{}, errs.NewObjectNotFoundError("seller", sellerID.String())
		}
		return ports.SellerContact{}, err
	}

	return ports.SellerContact{
		SellerID:    sellerID,
		Name:        dto.Name,
		Email:       dto.Email,
		Phone:       dto.Phone,
		BankAccount: dto.BankAccount,
		IFSC:        dto.Ifsc,
		Address:     dto.Address,
	}, nil
}
