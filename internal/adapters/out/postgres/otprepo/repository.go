package otprepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormVerificationRepository implements VerificationRepository using GORM.
type GormVerificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormVerificationRepository creates a new GORM verification repository.
func NewGormVerificationRepository(db *gorm.DB, tracker aggregateTracker) *GormVerificationRepository {
	return &GormVerificationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new verification audit row to the database.
func (r *GormVerificationRepository) Add(ctx context.Context, aggregate *otp.Verification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves a verification resolution to the database.
func (r *GormVerificationRepository) Update(ctx context.Context, aggregate *otp.Verification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&VerificationDTO{}).
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

// Get retrieves a verification by ID.
func (r *GormVerificationRepository) Get(ctx context.Context, id kernel.UUID) (*otp.Verification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VerificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("verification", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingForOrder retrieves the latest pending verification for an order
// and purpose, if one exists.
func (r *GormVerificationRepository) GetPendingForOrder(
	ctx context.Context,
	orderID kernel.UUID,
	purpose otp.Purpose,
) (*otp.Verification, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto VerificationDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND purpose = ? AND status = ?",
			orderID.Bytes(), string(purpose), string(otp.VerificationPending)).
		Order("created_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("verification", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllExpiredPending retrieves pending rows whose code aged out at or
// before the cutoff.
func (r *GormVerificationRepository) GetAllExpiredPending(
	ctx context.Context,
	cutoff time.Time,
) ([]*otp.Verification, error) {
	var dtos []VerificationDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", string(otp.VerificationPending), cutoff).
		Order("expires_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	verifications := make([]*otp.Verification, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		verifications = append(verifications, v)
	}

	return verifications, nil
}
