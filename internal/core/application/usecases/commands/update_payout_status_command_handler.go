package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ErrPayoutNotFound is returned when a webhook names a transfer id no payout
// carries. The event is acknowledged but dropped.
var ErrPayoutNotFound = errs.NewBusinessError(errs.CodeOrderNotFound,
	"no payout exists for this transfer id")

// UpdatePayoutStatusCommandHandler applies gateway webhook events. Events can
// arrive out of order and more than once: the payout aggregate refuses to
// regress a terminal status, and a no-op application skips the order mirror
// sync and the seller notification.
type UpdatePayoutStatusCommandHandler struct {
	uowFactory PayoutUoWFactory
	notifier   ports.NotificationGateway
}

// NewUpdatePayoutStatusCommandHandler creates a handler for webhook updates.
func NewUpdatePayoutStatusCommandHandler(
	uowFactory PayoutUoWFactory,
	notifier ports.NotificationGateway,
) UpdatePayoutStatusCommandHandler {
	return UpdatePayoutStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle applies the webhook event.
func (h UpdatePayoutStatusCommandHandler) Handle(ctx context.Context, command UpdatePayoutStatusCommand) error {
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

	payoutsRepo := uow.PayoutRepository()

	p, err := payoutsRepo.GetByTransferID(ctx, command.TransferID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrPayoutNotFound
	}
	if err != nil {
		return err
	}

	changed, err := p.ApplyGatewayStatus(command.Status(), command.Utr(),
		command.ErrorCode(), command.ErrorMessage(), time.Now())
	if err != nil {
		return err
	}
	if !changed {
		return uow.Commit(ctx)
	}

	if err = payoutsRepo.Update(ctx, p); err != nil {
		return err
	}

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.Get(ctx, p.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if err = o.SyncPayoutStatus(p.Status()); err != nil {
		return err
	}
	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := "payout.updated"
	switch p.Status() {
	case payout.TransferCompleted:
		event = "payout.completed"
	case payout.TransferFailed:
		event = "payout.failed"
	}
	_ = h.notifier.EmitToSeller(ctx, p.SellerID(), ports.Notification{
		Event: event,
		Data: map[string]string{
			"orderNumber": o.OrderNumber(),
			"transferId":  p.TransferID(),
			"status":      p.Status().String(),
		},
	})

	return nil
}
