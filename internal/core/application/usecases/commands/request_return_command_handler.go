package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// RequestReturnCommandHandler opens the return sub-machine on a delivered
// order. The eligibility service it holds is the same one the tracking query
// uses, so the buyer is never told "eligible" here and "not eligible" there.
type RequestReturnCommandHandler struct {
	uowFactory  OrderUoWFactory
	eligibility services.ReturnEligibility
	notifier    ports.NotificationGateway
}

// NewRequestReturnCommandHandler creates a handler for return requests.
func NewRequestReturnCommandHandler(
	uowFactory OrderUoWFactory,
	eligibility services.ReturnEligibility,
	notifier ports.NotificationGateway,
) RequestReturnCommandHandler {
	return RequestReturnCommandHandler{
		uowFactory:  uowFactory,
		eligibility: eligibility,
		notifier:    notifier,
	}
}

// Handle processes the return request. A buyer id that does not match the
// order fails as not-found so strangers cannot probe order existence.
func (h RequestReturnCommandHandler) Handle(ctx context.Context, command RequestReturnCommand) error {
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

	if !o.BuyerID().IsEqual(command.BuyerID()) {
		return order.ErrOrderNotFound
	}

	if err = o.RequestReturn(command.Reason(), time.Now(), h.eligibility.Window()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
		Event: "return.requested",
		Data:  map[string]string{"orderNumber": o.OrderNumber(), "reason": command.Reason()},
	})

	return nil
}
