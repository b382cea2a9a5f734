package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ProcessPayoutCommandHandler settles one delivered order with its seller.
//
// The transfer id is derived from the order number, so re-submission after a
// crash is deduplicated by the gateway. When the seller's beneficiary is not
// verified yet the payout is persisted in pending state and the handler fails
// with a retryable error; the retry job picks it up once verification lands.
type ProcessPayoutCommandHandler struct {
	uowFactory  PayoutUoWFactory
	gateway     ports.PaymentGateway
	sellers     ports.SellerDirectory
	payoutDelay time.Duration
	notifier    ports.NotificationGateway
}

// NewProcessPayoutCommandHandler creates a handler for single-order payouts.
func NewProcessPayoutCommandHandler(
	uowFactory PayoutUoWFactory,
	gateway ports.PaymentGateway,
	sellers ports.SellerDirectory,
	payoutDelay time.Duration,
	notifier ports.NotificationGateway,
) ProcessPayoutCommandHandler {
	return ProcessPayoutCommandHandler{
		uowFactory:  uowFactory,
		gateway:     gateway,
		sellers:     sellers,
		payoutDelay: payoutDelay,
		notifier:    notifier,
	}
}

// Handle processes the payout.
func (h ProcessPayoutCommandHandler) Handle(ctx context.Context, command ProcessPayoutCommand) error {
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
	payoutsRepo := uow.PayoutRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if o.PayoutMirror().Processed() {
		return order.ErrPayoutAlreadyProcessed
	}

	now := time.Now()
	if !o.IsPayoutEligible(now, h.payoutDelay) {
		return order.ErrPayoutNotEligible
	}

	// A pending payout row may already exist from an earlier run that was
	// held back by an unverified beneficiary. Reuse it instead of minting a
	// second transfer id for the same order.
	existing, err := payoutsRepo.GetByOrderID(ctx, o.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if existing != nil && existing.Status() != payout.TransferPending {
		return order.ErrPayoutAlreadyProcessed
	}

	beneficiary, err := ensureBeneficiary(ctx, uow, h.gateway, h.sellers, o.SellerID(), now)
	if err != nil {
		return err
	}

	p := existing
	if p == nil {
		breakdown := payout.ComputeCommission(o.Total())
		p, err = payout.NewPayout(kernel.NewUUID(), o.ID(), o.SellerID(), beneficiary.ID(),
			payout.TransferIDForOrder(o.OrderNumber()), breakdown, now)
		if err != nil {
			return err
		}
		if err = payoutsRepo.Add(ctx, p); err != nil {
			return err
		}
	}

	if !beneficiary.IsVerified() {
		// The pending payout is committed so the retry job can find it.
		if err = uow.Commit(ctx); err != nil {
			return err
		}
		return payout.ErrBeneficiaryNotVerified
	}

	result, err := h.gateway.CreateTransfer(ctx, ports.TransferRequest{
		TransferID:    p.TransferID(),
		BeneficiaryID: beneficiary.GatewayRef(),
		Amount:        p.Breakdown().SellerAmount,
		Remarks:       "Settlement for order " + o.OrderNumber(),
	})
	if err != nil {
		p.MarkSubmissionFailed("GATEWAY_UNREACHABLE", err.Error())
		if updateErr := payoutsRepo.Update(ctx, p); updateErr != nil {
			return updateErr
		}
		if commitErr := uow.Commit(ctx); commitErr != nil {
			return commitErr
		}
		return errs.NewRetryableBusinessError(errs.CodeTransferFailed,
			"transfer submission failed", err)
	}

	if err = p.MarkSubmitted(result.ReferenceID, payout.MapGatewayStatus(result.Status)); err != nil {
		return err
	}
	if err = payoutsRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = o.MarkPayoutProcessed(p.TransferID(), p.Status(), now); err != nil {
		return err
	}
	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
		Event: "payout.initiated",
		Data: map[string]string{
			"orderNumber": o.OrderNumber(),
			"transferId":  p.TransferID(),
			"amount":      p.Breakdown().SellerAmount.String(),
		},
	})

	return nil
}
