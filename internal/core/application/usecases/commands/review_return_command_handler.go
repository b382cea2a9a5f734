package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ReviewReturnCommandHandler records the admin's verdict on a return request.
type ReviewReturnCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationGateway
}

// NewReviewReturnCommandHandler creates a handler for return reviews.
func NewReviewReturnCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationGateway,
) ReviewReturnCommandHandler {
	return ReviewReturnCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the review.
func (h ReviewReturnCommandHandler) Handle(ctx context.Context, command ReviewReturnCommand) error {
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

	now := time.Now()
	if command.Approve() {
		err = o.ApproveReturn(command.Note(), now)
	} else {
		err = o.RejectReturn(command.Note(), now)
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

	event := "return.approved"
	if !command.Approve() {
		event = "return.rejected"
	}
	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: event,
		Data:  map[string]string{"orderNumber": o.OrderNumber(), "note": command.Note()},
	})

	return nil
}
