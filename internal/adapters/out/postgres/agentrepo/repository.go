package agentrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAgentRepository implements AgentRepository using GORM.
type GormAgentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAgentRepository creates a new GORM agent repository.
func NewGormAgentRepository(db *gorm.DB, tracker aggregateTracker) *GormAgentRepository {
	return &GormAgentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new agent to the database.
func (r *GormAgentRepository) Add(ctx context.Context, aggregate *agent.DeliveryAgent) error {
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

// Update saves an existing agent to the database, guarded by the optimistic
// concurrency version.
func (r *GormAgentRepository) Update(ctx context.Context, aggregate *agent.DeliveryAgent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&AgentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("agent",
			errs.NewObjectNotFoundError("agent", aggregate.ID().String()))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an agent by ID.
func (r *GormAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.DeliveryAgent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AgentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("agent", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves agents that are on duty with empty hands.
func (r *GormAgentRepository) GetAllAvailable(ctx context.Context) ([]*agent.DeliveryAgent, error) {
	var dtos []AgentDTO
	err := r.db.WithContext(ctx).
		Where("is_available = ? AND current_order_id IS NULL", true).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	agents := make([]*agent.DeliveryAgent, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}

	return agents, nil
}
