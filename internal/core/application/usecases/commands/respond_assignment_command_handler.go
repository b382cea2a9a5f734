package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// RespondAssignmentCommandHandler applies the agent's answer to an offered
// order. An agent with no relationship to the order gets not-found rather
// than unauthorized, so probing cannot confirm an order exists; only the
// currently assigned agent ever sees a state conflict.
type RespondAssignmentCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   ports.NotificationGateway
}

// NewRespondAssignmentCommandHandler creates a handler for assignment responses.
func NewRespondAssignmentCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.NotificationGateway,
) RespondAssignmentCommandHandler {
	return RespondAssignmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the response. A decline reverts the order to PickupReady
// and frees the agent so the order can be redispatched.
func (h RespondAssignmentCommandHandler) Handle(ctx context.Context, command RespondAssignmentCommand) error {
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

	if record := o.AssignmentRecord(); record.AgentID() == nil || !record.AgentID().IsEqual(command.AgentID()) {
		return order.ErrOrderNotFound
	}

	now := time.Now()
	if command.Accept() {
		err = o.AcceptAssignment(command.AgentID(), now)
	} else {
		err = o.RejectAssignment(command.AgentID(), command.Reason(), now)
	}
	if err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if !command.Accept() {
		a, err := agentsRepo.Get(ctx, command.AgentID())
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

	if command.Accept() {
		_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
			Event: "assignment.accepted",
			Data:  map[string]string{"orderNumber": o.OrderNumber()},
		})
	}

	return nil
}
