package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// RespondReturnAssignmentCommandHandler applies the return agent's answer.
// The same existence-leak rule as forward assignments applies: an agent the
// return was never offered to gets not-found.
type RespondReturnAssignmentCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationGateway
}

// NewRespondReturnAssignmentCommandHandler creates a handler for return
// assignment responses.
func NewRespondReturnAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationGateway,
) RespondReturnAssignmentCommandHandler {
	return RespondReturnAssignmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the response. A decline reverts the return to Approved
// with the agent cleared so an admin can reassign it.
func (h RespondReturnAssignmentCommandHandler) Handle(
	ctx context.Context,
	command RespondReturnAssignmentCommand,
) error {
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

	ret := o.ReturnDetails()
	if ret == nil || ret.AgentID() == nil || !ret.AgentID().IsEqual(command.AgentID()) {
		return order.ErrOrderNotFound
	}

	now := time.Now()
	if command.Accept() {
		err = o.AcceptReturnAssignment(command.AgentID(), now)
	} else {
		err = o.RejectReturnAssignment(command.AgentID(), command.Reason(), now)
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

	if command.Accept() {
		_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
			Event: "return.pickup_scheduled",
			Data:  map[string]string{"orderNumber": o.OrderNumber()},
		})
	}

	return nil
}
