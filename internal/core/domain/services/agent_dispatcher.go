package services

import (
	"time"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/order"
)

// AgentDispatcher is a domain service that picks a delivery agent for an
// order and executes the assignment workflow on both aggregates.
//
// Selection criteria:
//   - the agent must be on duty with empty hands
//   - among candidates, the one with the fewest completed deliveries wins,
//     spreading work across the fleet
//   - ties go to the first candidate in the provided slice
type AgentDispatcher struct{}

// NewAgentDispatcher creates a new AgentDispatcher instance.
func NewAgentDispatcher() AgentDispatcher {
	return AgentDispatcher{}
}

// Dispatch assigns the best available agent to the order. The order must be
// PickupReady; both aggregates are mutated together so the caller persists
// them in one unit of work.
//
// Returns agent.ErrAgentNotAvailable when no candidate can take the order.
func (d AgentDispatcher) Dispatch(o *order.Order, candidates []*agent.DeliveryAgent, now time.Time) (*agent.DeliveryAgent, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findBestAgent(candidates)
	if err != nil {
		return nil, err
	}

	if err = o.AssignAgent(best.ID(), now); err != nil {
		return nil, err
	}

	if err = best.TakeOrder(o.ID()); err != nil {
		return nil, err
	}

	return best, nil
}

func (d AgentDispatcher) findBestAgent(candidates []*agent.DeliveryAgent) (*agent.DeliveryAgent, error) {
	var best *agent.DeliveryAgent

	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}

		if !candidate.CanTakeOrder() {
			continue
		}

		if best == nil || candidate.CompletedDeliveries() < best.CompletedDeliveries() {
			best = candidate
		}
	}

	if best == nil {
		return nil, agent.ErrAgentNotAvailable
	}

	return best, nil
}
