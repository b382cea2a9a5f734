package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// HandoffOtpSender delivers a handoff code and opens its audit row.
// Implemented by the otpverify application service.
type HandoffOtpSender interface {
	SendHandoffOtp(
		ctx context.Context,
		orderID kernel.UUID,
		phone kernel.Phone,
		purpose otp.Purpose,
	) (kernel.UUID, error)
}

// RequestHandoffOtpCommandHandler sends a confirmation code for an order
// handoff. Delivery and return-pickup codes go to the buyer; return-drop
// codes go to the seller. Only the agent currently on the job may ask.
type RequestHandoffOtpCommandHandler struct {
	uowFactory OrderUoWFactory
	sender     HandoffOtpSender
	sellers    ports.SellerDirectory
}

// NewRequestHandoffOtpCommandHandler creates a handler for handoff code requests.
func NewRequestHandoffOtpCommandHandler(
	uowFactory OrderUoWFactory,
	sender HandoffOtpSender,
	sellers ports.SellerDirectory,
) RequestHandoffOtpCommandHandler {
	return RequestHandoffOtpCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		sellers:    sellers,
	}
}

// Handle checks the order is at the right handoff for the purpose and sends
// the code to whoever is receiving the package.
func (h RequestHandoffOtpCommandHandler) Handle(ctx context.Context, command RequestHandoffOtpCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	phone, err := h.handoffPhone(ctx, o, command)
	if err != nil {
		return err
	}

	if _, err = h.sender.SendHandoffOtp(ctx, command.OrderID(), phone, command.Purpose()); err != nil {
		return err
	}
	return nil
}

// handoffPhone authorizes the requesting agent against the handoff the
// purpose names and returns the receiving party's phone.
func (h RequestHandoffOtpCommandHandler) handoffPhone(
	ctx context.Context,
	o *order.Order,
	command RequestHandoffOtpCommand,
) (kernel.Phone, error) {
	switch command.Purpose() {
	case otp.PurposeDeliveryConfirmation:
		agentID := o.AssignmentRecord().AgentID()
		if agentID == nil || !agentID.IsEqual(command.AgentID()) {
			return kernel.Phone{}, order.ErrUnauthorizedOrder
		}
		if o.Status() != order.OutForDelivery {
			return kernel.Phone{}, order.NewInvalidStateError("requesting a delivery code", o.Status())
		}
		return o.BuyerPhone(), nil

	case otp.PurposeReturnPickup, otp.PurposeReturnDelivery:
		details := o.ReturnDetails()
		if details == nil {
			return kernel.Phone{}, order.NewInvalidStateError("requesting a return code", o.Status())
		}
		agentID := details.AgentID()
		if agentID == nil || !agentID.IsEqual(command.AgentID()) {
			return kernel.Phone{}, order.ErrUnauthorizedOrder
		}

		if command.Purpose() == otp.PurposeReturnPickup {
			if details.Status() != order.ReturnAccepted {
				return kernel.Phone{}, order.NewInvalidStateError("requesting a return pickup code", details.Status())
			}
			return o.BuyerPhone(), nil
		}

		if details.Status() != order.ReturnPickedUp {
			return kernel.Phone{}, order.NewInvalidStateError("requesting a return drop code", details.Status())
		}
		seller, err := h.sellers.GetSeller(ctx, o.SellerID())
		if err != nil {
			return kernel.Phone{}, err
		}
		return kernel.NewPhone(seller.Phone)

	default:
		return kernel.Phone{}, errs.NewValueIsInvalidError("purpose")
	}
}
