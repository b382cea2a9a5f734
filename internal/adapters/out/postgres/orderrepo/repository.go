package orderrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. The write is guarded by the
// optimistic concurrency version: a concurrent writer that bumped the row
// first makes this update match zero rows, and the caller gets a version
// conflict instead of silently overwriting.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version = aggregate.Version() + 1

	// Select("*") forces cleared fields (a rejected assignment, a nil
	// location) back to their zero column values.
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("order",
			errs.NewObjectNotFoundError("order", aggregate.ID().String()))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderNumber retrieves an order by its human-readable number.
func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllPayoutEligible retrieves delivered, paid orders whose payout is still
// unprocessed and whose delivery happened at or before the cutoff.
func (r *GormOrderRepository) GetAllPayoutEligible(ctx context.Context, deliveredBefore time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_paid = ? AND payout_processed = ? AND delivery_delivered_at <= ?",
			order.Delivered, true, false, deliveredBefore).
		Order("delivery_delivered_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllAssignedToAgent retrieves the orders an agent is currently working:
// forward deliveries the agent holds, plus active reverse-logistics pickups.
func (r *GormOrderRepository) GetAllAssignedToAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error) {
	if err := agentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("(assignment_agent_id = ? AND status IN ?) OR (return_agent_id = ? AND return_status IN ?)",
			agentID.Bytes(),
			[]int{int(order.Assigned), int(order.Accepted), int(order.OutForDelivery)},
			agentID.Bytes(),
			[]int{int(order.ReturnAgentAssigned), int(order.ReturnAccepted), int(order.ReturnPickedUp)}).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
