// Package ports defines the contracts between the domain core and
// infrastructure: repositories, the unit of work, and outbound gateways.
// Adapters implement them; handlers depend on them.
package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. Fails when the
	// stored optimistic concurrency version differs from the aggregate's.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNumber retrieves an order by its human-readable number.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)

	// GetAllPayoutEligible retrieves delivered, paid orders whose payout is
	// still unprocessed and whose delivery happened at or before the cutoff.
	GetAllPayoutEligible(ctx context.Context, deliveredBefore time.Time) ([]*order.Order, error)

	// GetAllAssignedToAgent retrieves the orders currently assigned to an
	// agent and not yet in a terminal status.
	GetAllAssignedToAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error)
}
