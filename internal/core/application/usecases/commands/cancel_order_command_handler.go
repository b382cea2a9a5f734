package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CancelOrderCommandHandler abandons an order. If an agent was already
// assigned their hands are freed so they return to the dispatch pool.
type CancelOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.NotificationGateway
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.NotificationGateway,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the cancellation.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	assignedAgentID := o.AssignmentRecord().AgentID()

	if err = o.Cancel(command.Actor(), command.Reason(), time.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if assignedAgentID != nil {
		agentsRepo := uow.AgentRepository()
		a, err := agentsRepo.Get(ctx, *assignedAgentID)
		if err != nil {
			return err
		}
		if err = a.ReleaseOrder(); err != nil {
			return err
		}
		if err = agentsRepo.Update(ctx, a); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "order.cancelled",
		Data:  map[string]string{"orderNumber": o.OrderNumber(), "reason": command.Reason()},
	})
	_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
		Event: "order.cancelled",
		Data:  map[string]string{"orderNumber": o.OrderNumber(), "reason": command.Reason()},
	})

	return nil
}
