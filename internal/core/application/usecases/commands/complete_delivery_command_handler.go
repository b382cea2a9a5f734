package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// HandoffVerifier checks a handoff OTP against the SMS gateway and resolves
// the durable audit row. Implemented by the otpverify application service.
type HandoffVerifier interface {
	// VerifyHandoff returns the audit row id of the verified code, or a
	// business error when the gateway rejects it.
	VerifyHandoff(
		ctx context.Context,
		orderID kernel.UUID,
		phone kernel.Phone,
		purpose otp.Purpose,
		code string,
	) (kernel.UUID, error)
}

// CompleteDeliveryCommandHandler confirms the buyer handoff. The OTP check
// happens against the gateway before any state moves; on success the order is
// marked Delivered and the agent's hands are freed with a delivery credit, in
// one transaction.
type CompleteDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	verifier   HandoffVerifier
	notifier   ports.NotificationGateway
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery confirmations.
func NewCompleteDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	verifier HandoffVerifier,
	notifier ports.NotificationGateway,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		notifier:   notifier,
	}
}

// Handle processes the delivery confirmation.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) error {
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

	// authorization precedes the gateway round trip so a stranger's request
	// never burns the buyer's code
	if record := o.AssignmentRecord(); record.AgentID() == nil || !record.AgentID().IsEqual(command.AgentID()) {
		return order.ErrUnauthorizedOrder
	}

	verificationID, err := h.verifier.VerifyHandoff(ctx, o.ID(), o.BuyerPhone(),
		otp.PurposeDeliveryConfirmation, command.OtpCode())
	if err != nil {
		return err
	}

	if err = o.CompleteDelivery(command.AgentID(), command.Location(), verificationID, time.Now()); err != nil {
		return err
	}

	a, err := agentsRepo.Get(ctx, command.AgentID())
	if err != nil {
		return err
	}
	if err = a.RecordDelivery(); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = agentsRepo.Update(ctx, a); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "order.delivered",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})
	_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
		Event: "order.delivered",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
