package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CompletePickupCommandHandler verifies the agent's plain-text order number
// reading and moves the order out for delivery.
//
// The agent's pickup counter is credited in the same transaction, so the
// counter can never run ahead of the orders it counts.
type CompletePickupCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.NotificationGateway
}

// NewCompletePickupCommandHandler creates a handler for pickup confirmations.
func NewCompletePickupCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.NotificationGateway,
) CompletePickupCommandHandler {
	return CompletePickupCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the pickup confirmation. Verification failures leave the
// order untouched and retryable; the already-completed check fires before the
// verification checks so a re-entry never reports a mismatch.
func (h CompletePickupCommandHandler) Handle(ctx context.Context, command CompletePickupCommand) error {
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

	if err = o.CompletePickup(command.AgentID(), command.OrderIDVerification(),
		command.Notes(), time.Now()); err != nil {
		return err
	}

	a, err := agentsRepo.Get(ctx, command.AgentID())
	if err != nil {
		return err
	}
	a.RecordPickup()

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = agentsRepo.Update(ctx, a); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// fire-and-forget, a lost notification never fails the pickup
	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "order.out_for_delivery",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})
	_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
		Event: "order.picked_up",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
