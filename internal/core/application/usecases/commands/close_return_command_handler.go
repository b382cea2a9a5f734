package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CloseReturnCommandHandler finalizes a return once the seller has the
// package back. Refund settlement happens in the payment system; closing the
// return here only seals the lifecycle record.
type CloseReturnCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationGateway
}

// NewCloseReturnCommandHandler creates a handler for closing returns.
func NewCloseReturnCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationGateway,
) CloseReturnCommandHandler {
	return CloseReturnCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the return close.
func (h CloseReturnCommandHandler) Handle(ctx context.Context, command CloseReturnCommand) error {
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

	if err = o.CloseReturn(time.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "return.completed",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
