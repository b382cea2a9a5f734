package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AdvanceOrderStatusCommandHandler moves an order through the seller-owned
// statuses. A seller id that does not match the order fails as not-found so
// strangers cannot probe order existence.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationGateway
}

// NewAdvanceOrderStatusCommandHandler creates a handler for seller status advances.
func NewAdvanceOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationGateway,
) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the status advance.
func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, command AdvanceOrderStatusCommand) error {
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

	if !o.SellerID().IsEqual(command.SellerID()) {
		return order.ErrOrderNotFound
	}

	now := time.Now()
	switch command.Target() {
	case order.Confirmed:
		err = o.Confirm(now)
	case order.Processing:
		err = o.StartProcessing(now)
	case order.PickupReady:
		err = o.ReadyForPickup(now)
	}
	if err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "order.status_changed",
		Data: map[string]string{
			"orderNumber": o.OrderNumber(),
			"status":      o.Status().String(),
		},
	})

	return nil
}
