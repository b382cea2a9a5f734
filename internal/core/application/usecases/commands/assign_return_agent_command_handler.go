package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AssignReturnAgentCommandHandler attaches a reverse-logistics agent to an
// approved return. Return trips do not occupy the agent's forward-order
// hands; only the return record tracks them.
type AssignReturnAgentCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationGateway
}

// NewAssignReturnAgentCommandHandler creates a handler for return agent assignment.
func NewAssignReturnAgentCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationGateway,
) AssignReturnAgentCommandHandler {
	return AssignReturnAgentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the assignment.
func (h AssignReturnAgentCommandHandler) Handle(ctx context.Context, command AssignReturnAgentCommand) error {
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

	if err = o.AssignReturnAgent(command.AgentID(), time.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToAgent(ctx, command.AgentID(), ports.Notification{
		Event: "return_assignment.offered",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
