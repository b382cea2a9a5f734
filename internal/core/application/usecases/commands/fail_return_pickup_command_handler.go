package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// FailReturnPickupCommandHandler records a return pickup attempt that could
// not be completed. The return sub-machine ends here; support follows up with
// the buyer out of band.
type FailReturnPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationGateway
}

// NewFailReturnPickupCommandHandler creates a handler for failed return pickups.
func NewFailReturnPickupCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationGateway,
) FailReturnPickupCommandHandler {
	return FailReturnPickupCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the failure report.
func (h FailReturnPickupCommandHandler) Handle(ctx context.Context, command FailReturnPickupCommand) error {
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

	if err = o.FailReturnPickup(command.AgentID(), command.Reason(), time.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "return.pickup_failed",
		Data: map[string]string{
			"orderNumber": o.OrderNumber(),
			"reason":      command.Reason(),
		},
	})

	return nil
}
