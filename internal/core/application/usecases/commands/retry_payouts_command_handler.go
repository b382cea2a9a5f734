package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// RetryPayoutsCommandHandler re-submits retryable payouts one by one. A
// failure on one payout marks it and moves on; the sweep never aborts on a
// single bad transfer.
type RetryPayoutsCommandHandler struct {
	uowFactory PayoutUoWFactory
	gateway    ports.PaymentGateway
	notifier   ports.NotificationGateway
}

// NewRetryPayoutsCommandHandler creates a handler for the payout retry sweep.
func NewRetryPayoutsCommandHandler(
	uowFactory PayoutUoWFactory,
	gateway ports.PaymentGateway,
	notifier ports.NotificationGateway,
) RetryPayoutsCommandHandler {
	return RetryPayoutsCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
	}
}

// Handle runs the sweep and returns the number of payouts re-submitted.
func (h RetryPayoutsCommandHandler) Handle(ctx context.Context, command RetryPayoutsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payoutsRepo := uow.PayoutRepository()
	beneficiariesRepo := uow.BeneficiaryRepository()
	ordersRepo := uow.OrderRepository()

	retryable, err := payoutsRepo.GetAllRetryable(ctx)
	if err != nil {
		return 0, err
	}
	if len(retryable) == 0 {
		return 0, nil
	}

	now := time.Now()
	submitted := 0

	for _, p := range retryable {
		beneficiary, err := beneficiariesRepo.GetBySellerID(ctx, p.SellerID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return submitted, err
		}
		if !beneficiary.IsVerified() {
			continue
		}

		if p.Status() == payout.TransferFailed {
			if err = p.PrepareRetry(); err != nil {
				continue
			}
		}

		result, err := h.gateway.CreateTransfer(ctx, ports.TransferRequest{
			TransferID:    p.TransferID(),
			BeneficiaryID: beneficiary.GatewayRef(),
			Amount:        p.Breakdown().SellerAmount,
			Remarks:       "Settlement retry " + p.TransferID(),
		})
		if err != nil {
			p.MarkSubmissionFailed("GATEWAY_UNREACHABLE", err.Error())
			if updateErr := payoutsRepo.Update(ctx, p); updateErr != nil {
				return submitted, updateErr
			}
			continue
		}

		if err = p.MarkSubmitted(result.ReferenceID, payout.MapGatewayStatus(result.Status)); err != nil {
			return submitted, err
		}
		if err = payoutsRepo.Update(ctx, p); err != nil {
			return submitted, err
		}

		o, err := ordersRepo.Get(ctx, p.OrderID())
		if err != nil {
			return submitted, err
		}
		if o.PayoutMirror().Processed() {
			if err = o.SyncPayoutStatus(p.Status()); err != nil {
				return submitted, err
			}
		} else if err = o.MarkPayoutProcessed(p.TransferID(), p.Status(), now); err != nil {
			return submitted, err
		}
		if err = ordersRepo.Update(ctx, o); err != nil {
			return submitted, err
		}

		submitted++
	}

	if err = uow.Commit(ctx); err != nil {
		return submitted, err
	}

	return submitted, nil
}
