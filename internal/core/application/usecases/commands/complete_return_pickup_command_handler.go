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

// ErrReturnOtpRequired is returned when the deployment requires an OTP for
// return handoffs and none was provided.
var ErrReturnOtpRequired = errs.NewBusinessError(errs.CodeOtpInvalid,
	"an otp code is required to confirm this handoff")

// CompleteReturnPickupCommandHandler records the package collected from the
// buyer. When OTP confirmation is enabled the buyer's code is checked against
// the gateway first, exactly like a forward delivery.
type CompleteReturnPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	verifier   HandoffVerifier
	requireOtp bool
	notifier   ports.NotificationGateway
}

// NewCompleteReturnPickupCommandHandler creates a handler for return pickups.
func NewCompleteReturnPickupCommandHandler(
	uowFactory OrderUoWFactory,
	verifier HandoffVerifier,
	requireOtp bool,
	notifier ports.NotificationGateway,
) CompleteReturnPickupCommandHandler {
	return CompleteReturnPickupCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		requireOtp: requireOtp,
		notifier:   notifier,
	}
}

// Handle processes the return pickup confirmation.
func (h CompleteReturnPickupCommandHandler) Handle(ctx context.Context, command CompleteReturnPickupCommand) error {
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

	// authorization precedes the gateway round trip so a stranger's request
	// never burns the buyer's code
	details := o.ReturnDetails()
	if details == nil || details.AgentID() == nil || !details.AgentID().IsEqual(command.AgentID()) {
		return order.ErrUnauthorizedOrder
	}

	var verificationID *kernel.UUID
	if h.requireOtp {
		if command.OtpCode() == "" {
			return ErrReturnOtpRequired
		}
		id, err := h.verifier.VerifyHandoff(ctx, o.ID(), o.BuyerPhone(),
			otp.PurposeReturnPickup, command.OtpCode())
		if err != nil {
			return err
		}
		verificationID = &id
	}

	if err = o.CompleteReturnPickup(command.AgentID(), command.Notes(),
		command.Location(), verificationID, time.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
		Event: "return.picked_up",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
