package payoutrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPayoutRepository implements PayoutRepository using GORM. It persists
// both payouts and their batches; the two always change inside the same
// business transaction.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormPayoutRepository creates a new GORM payout repository.
func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new payout to the database.
func (r *GormPayoutRepository) Add(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := payoutFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing payout to the database.
func (r *GormPayoutRepository) Update(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := payoutFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PayoutDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a payout by ID.
func (r *GormPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout", id.String())
		}
		return nil, err
	}

	return payoutToDomain(dto)
}

// GetByOrderID retrieves the payout for an order, if one exists.
func (r *GormPayoutRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payout.Payout, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto PayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout", orderID.String())
		}
		return nil, err
	}

	return payoutToDomain(dto)
}

// GetByTransferID retrieves a payout strictly by its gateway transfer id.
func (r *GormPayoutRepository) GetByTransferID(ctx context.Context, transferID string) (*payout.Payout, error) {
	var dto PayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "transfer_id = ?", transferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout", transferID)
		}
		return nil, err
	}

	return payoutToDomain(dto)
}

// GetAllRetryable retrieves payouts the retry job should re-submit: failed
// transfers flagged retryable plus pending payouts never handed to the
// gateway.
func (r *GormPayoutRepository) GetAllRetryable(ctx context.Context) ([]*payout.Payout, error) {
	var dtos []PayoutDTO
	err := r.db.WithContext(ctx).
		Where("(status = ? AND retryable = ?) OR (status = ? AND gateway_ref = '')",
			payout.TransferFailed, true, payout.TransferPending).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	payouts := make([]*payout.Payout, 0, len(dtos))
	for _, dto := range dtos {
		p, err := payoutToDomain(dto)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}

	return payouts, nil
}

// AddBatch saves a new payout batch to the database.
func (r *GormPayoutRepository) AddBatch(ctx context.Context, batch *payout.PayoutBatch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	dto := batchFromDomain(batch)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(batch.ID(), batch)
	return nil
}

// UpdateBatch saves an existing payout batch to the database.
func (r *GormPayoutRepository) UpdateBatch(ctx context.Context, batch *payout.PayoutBatch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	dto := batchFromDomain(batch)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(batch.ID(), batch)
	return nil
}

// GetBatch retrieves a payout batch by ID.
func (r *GormPayoutRepository) GetBatch(ctx context.Context, id kernel.UUID) (*payout.PayoutBatch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout batch", id.String())
		}
		return nil, err
	}

	return batchToDomain(dto)
}

// GormBeneficiaryRepository implements BeneficiaryRepository using GORM.
type GormBeneficiaryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormBeneficiaryRepository creates a new GORM beneficiary repository.
func NewGormBeneficiaryRepository(db *gorm.DB, tracker aggregateTracker) *GormBeneficiaryRepository {
	return &GormBeneficiaryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new beneficiary to the database.
func (r *GormBeneficiaryRepository) Add(ctx context.Context, aggregate *payout.Beneficiary) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := beneficiaryFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing beneficiary to the database.
func (r *GormBeneficiaryRepository) Update(ctx context.Context, aggregate *payout.Beneficiary) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := beneficiaryFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BeneficiaryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetBySellerID retrieves the beneficiary registered for a seller, if one
// exists.
func (r *GormBeneficiaryRepository) GetBySellerID(ctx context.Context, sellerID kernel.UUID) (*payout.Beneficiary, error) {
	if err := sellerID.Validate(); err != nil {
		return nil, err
	}

	var dto BeneficiaryDTO
	if err := r.db.WithContext(ctx).First(&dto, "seller_id = ?", sellerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("beneficiary", sellerID.String())
		}
		return nil, err
	}

	return beneficiaryToDomain(dto)
}
