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

// ProcessBatchPayoutsCommandHandler settles all eligible delivered orders in
// one gateway batch. Orders whose seller beneficiary is not verified get a
// pending payout row and are left for the retry job; they never block the
// rest of the run.
type ProcessBatchPayoutsCommandHandler struct {
	uowFactory  PayoutUoWFactory
	gateway     ports.PaymentGateway
	sellers     ports.SellerDirectory
	payoutDelay time.Duration
	notifier    ports.NotificationGateway
}

// NewProcessBatchPayoutsCommandHandler creates a handler for batch payout runs.
func NewProcessBatchPayoutsCommandHandler(
	uowFactory PayoutUoWFactory,
	gateway ports.PaymentGateway,
	sellers ports.SellerDirectory,
	payoutDelay time.Duration,
	notifier ports.NotificationGateway,
) ProcessBatchPayoutsCommandHandler {
	return ProcessBatchPayoutsCommandHandler{
		uowFactory:  uowFactory,
		gateway:     gateway,
		sellers:     sellers,
		payoutDelay: payoutDelay,
		notifier:    notifier,
	}
}

// Handle runs the batch. Returns nil when there was nothing to settle.
func (h ProcessBatchPayoutsCommandHandler) Handle(ctx context.Context, command ProcessBatchPayoutsCommand) error {
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

	now := time.Now()
	eligible, err := ordersRepo.GetAllPayoutEligible(ctx, now.Add(-h.payoutDelay))
	if err != nil {
		return err
	}
	if len(eligible) == 0 {
		return nil
	}

	batch, err := payout.NewPayoutBatch(kernel.NewUUID(),
		payout.BatchRef(command.RunDate(), command.Suffix()), command.RunDate())
	if err != nil {
		return err
	}

	// One beneficiary lookup per seller, not per order.
	beneficiaries := make(map[kernel.UUID]*payout.Beneficiary)

	var transfers []ports.TransferRequest
	batched := make(map[string]*payout.Payout)
	batchedOrders := make(map[string]*order.Order)

	for _, o := range eligible {
		if !o.IsPayoutEligible(now, h.payoutDelay) {
			continue
		}

		beneficiary, ok := beneficiaries[o.SellerID()]
		if !ok {
			beneficiary, err = ensureBeneficiary(ctx, uow, h.gateway, h.sellers, o.SellerID(), now)
			if err != nil {
				return err
			}
			beneficiaries[o.SellerID()] = beneficiary
		}

		p, err := h.pendingPayoutFor(ctx, uow, o, beneficiary, now)
		if err != nil {
			return err
		}
		if p == nil {
			// Already submitted elsewhere; nothing to do for this order.
			continue
		}

		if !beneficiary.IsVerified() {
			// The pending row is persisted; the retry job resubmits it
			// once the beneficiary verifies.
			continue
		}

		if err = p.AttachToBatch(batch.ID()); err != nil {
			return err
		}
		batch.Include(p.Breakdown().SellerAmount)
		batched[p.TransferID()] = p
		batchedOrders[p.TransferID()] = o

		transfers = append(transfers, ports.TransferRequest{
			TransferID:    p.TransferID(),
			BeneficiaryID: beneficiary.GatewayRef(),
			Amount:        p.Breakdown().SellerAmount,
			Remarks:       "Settlement for order " + o.OrderNumber(),
		})
	}

	if len(transfers) == 0 {
		// Only held-back payouts were produced this run.
		return uow.Commit(ctx)
	}

	if err = payoutsRepo.AddBatch(ctx, batch); err != nil {
		return err
	}
	for _, p := range batched {
		if err = payoutsRepo.Update(ctx, p); err != nil {
			return err
		}
	}

	result, err := h.gateway.CreateBatchTransfer(ctx, batch.BatchRef(), transfers)
	if err != nil {
		for _, p := range batched {
			p.MarkSubmissionFailed("GATEWAY_UNREACHABLE", err.Error())
			if updateErr := payoutsRepo.Update(ctx, p); updateErr != nil {
				return updateErr
			}
		}
		if commitErr := uow.Commit(ctx); commitErr != nil {
			return commitErr
		}
		return errs.NewRetryableBusinessError(errs.CodeTransferFailed,
			"batch transfer submission failed", err)
	}

	if err = batch.MarkSubmitted(result.BatchRef, payout.TransferProcessing); err != nil {
		return err
	}
	if err = payoutsRepo.UpdateBatch(ctx, batch); err != nil {
		return err
	}

	for transferID, p := range batched {
		transfer, ok := result.Transfers[transferID]
		if !ok {
			// The gateway did not echo this transfer back; leave it
			// pending for the status poll to resolve.
			continue
		}

		if transfer.ErrorCode != "" {
			p.MarkSubmissionFailed(transfer.ErrorCode, transfer.Message)
		} else if err = p.MarkSubmitted(transfer.ReferenceID,
			payout.MapGatewayStatus(transfer.Status)); err != nil {
			return err
		}
		if err = payoutsRepo.Update(ctx, p); err != nil {
			return err
		}

		if p.Status() == payout.TransferFailed {
			continue
		}

		o := batchedOrders[transferID]
		if err = o.MarkPayoutProcessed(p.TransferID(), p.Status(), now); err != nil {
			return err
		}
		if err = ordersRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for transferID, p := range batched {
		if p.Status() == payout.TransferFailed {
			continue
		}
		o := batchedOrders[transferID]
		_ = h.notifier.EmitToSeller(ctx, o.SellerID(), ports.Notification{
			Event: "payout.initiated",
			Data: map[string]string{
				"orderNumber": o.OrderNumber(),
				"transferId":  p.TransferID(),
				"amount":      p.Breakdown().SellerAmount.String(),
			},
		})
	}

	return nil
}

// pendingPayoutFor returns the order's pending payout, creating and
// persisting one when none exists. Returns nil when the order's payout was
// already submitted.
func (h ProcessBatchPayoutsCommandHandler) pendingPayoutFor(
	ctx context.Context,
	uow PayoutUoW,
	o *order.Order,
	beneficiary *payout.Beneficiary,
	now time.Time,
) (*payout.Payout, error) {
	payoutsRepo := uow.PayoutRepository()

	existing, err := payoutsRepo.GetByOrderID(ctx, o.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status() != payout.TransferPending {
			return nil, nil
		}
		return existing, nil
	}

	breakdown := payout.ComputeCommission(o.Total())
	p, err := payout.NewPayout(kernel.NewUUID(), o.ID(), o.SellerID(), beneficiary.ID(),
		payout.TransferIDForOrder(o.OrderNumber()), breakdown, now)
	if err != nil {
		return nil, err
	}
	if err = payoutsRepo.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
