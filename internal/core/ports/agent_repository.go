package ports

import (
	"context"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agent
// aggregates.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	Add(ctx context.Context, aggregate *agent.DeliveryAgent) error

	// Update persists changes to an existing agent aggregate. Fails when the
	// stored optimistic concurrency version differs from the aggregate's.
	Update(ctx context.Context, aggregate *agent.DeliveryAgent) error

	// Get retrieves an agent aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.DeliveryAgent, error)

	// GetAllAvailable retrieves agents that are on duty with empty hands,
	// the dispatch candidate set.
	GetAllAvailable(ctx context.Context) ([]*agent.DeliveryAgent, error)
}
