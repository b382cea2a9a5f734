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

// CompleteReturnDeliveryCommandHandler records the package handed back to the
// seller. When OTP confirmation is enabled the seller's code is checked at the
// gateway before the order is touched.
type CompleteReturnDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	verifier   HandoffVerifier
	sellers    ports.SellerDirectory
	requireOtp bool
	notifier   ports.NotificationGateway
}

// NewCompleteReturnDeliveryCommandHandler creates a handler for return deliveries.
func NewCompleteReturnDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	verifier HandoffVerifier,
	sellers ports.SellerDirectory,
	requireOtp bool,
	notifier ports.NotificationGateway,
) CompleteReturnDeliveryCommandHandler {
	return CompleteReturnDeliveryCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		sellers:    sellers,
		requireOtp: requireOtp,
		notifier:   notifier,
	}
}

// Handle processes the return delivery confirmation.
func (h CompleteReturnDeliveryCommandHandler) Handle(ctx context.Context, command CompleteReturnDeliveryCommand) error {
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
	// never burns the seller's code
	details := o.ReturnDetails()
	if details == nil || details.AgentID() == nil || !details.AgentID().IsEqual(command.AgentID()) {
		return order.ErrUnauthorizedOrder
	}

	var verificationID *kernel.UUID
	if h.requireOtp {
		if command.OtpCode() == "" {
			return ErrReturnOtpRequired
		}

		seller, err := h.sellers.GetSeller(ctx, o.SellerID())
		if err != nil {
			return err
		}
		sellerPhone, err := kernel.NewPhone(seller.Phone)
		if err != nil {
			return err
		}

		id, err := h.verifier.VerifyHandoff(ctx, o.ID(), sellerPhone,
			otp.PurposeReturnDelivery, command.OtpCode())
		if err != nil {
			return err
		}
		verificationID = &id
	}

	if err = o.CompleteReturnDelivery(command.AgentID(), command.Notes(),
		command.Location(), verificationID, time.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToUser(ctx, o.BuyerID(), ports.Notification{
		Event: "return.delivered_to_seller",
		Data:  map[string]string{"orderNumber": o.OrderNumber()},
	})

	return nil
}
