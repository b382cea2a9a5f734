package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AssignAgentCommandHandler matches a pickup-ready order with a delivery
// agent, either the one the admin named or the dispatcher's pick. The order
// and the agent move together in one transaction.
type AssignAgentCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.NotificationGateway
}

// NewAssignAgentCommandHandler creates a handler for agent assignment.
func NewAssignAgentCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.NotificationGateway,
) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the assignment.
func (h AssignAgentCommandHandler) Handle(ctx context.Context, command AssignAgentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	agentsRepo := uow.AgentRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	var assigned *agent.DeliveryAgent
	now := time.Now()

	if command.AgentID() != nil {
		assigned, err = agentsRepo.Get(ctx, *command.AgentID())
		if err != nil {
			return err
		}
		if err = o.AssignAgent(assigned.ID(), now); err != nil {
			return err
		}
		if err = assigned.TakeOrder(o.ID()); err != nil {
			return err
		}
	} else {
		candidates, err := agentsRepo.GetAllAvailable(ctx)
		if err != nil {
			return err
		}
		assigned, err = services.NewAgentDispatcher().Dispatch(o, candidates, now)
		if err != nil {
			return err
		}
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = agentsRepo.Update(ctx, assigned); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToAgent(ctx, assigned.ID(), ports.Notification{
		Event: "assignment.offered",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
