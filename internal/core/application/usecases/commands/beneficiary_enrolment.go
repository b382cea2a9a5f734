package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ensureBeneficiary returns the seller's payout beneficiary, registering one
// at the payment gateway on the seller's first payout. Each seller has at
// most one beneficiary.
func ensureBeneficiary(
	ctx context.Context,
	uow PayoutUoW,
	gateway ports.PaymentGateway,
	sellers ports.SellerDirectory,
	sellerID kernel.UUID,
	now time.Time,
) (*payout.Beneficiary, error) {
	beneficiariesRepo := uow.BeneficiaryRepository()

	beneficiary, err := beneficiariesRepo.GetBySellerID(ctx, sellerID)
	if err == nil {
		return beneficiary, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	seller, err := sellers.GetSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	beneficiary, err = payout.NewBeneficiary(kernel.NewUUID(), sellerID,
		seller.Name, seller.BankAccount, seller.IFSC, now)
	if err != nil {
		return nil, err
	}

	result, err := gateway.CreateBeneficiary(ctx, ports.BeneficiaryRequest{
		BeneficiaryID: beneficiary.ID().String(),
		Name:          seller.Name,
		Email:         seller.Email,
		Phone:         seller.Phone,
		BankAccount:   seller.BankAccount,
		IFSC:          seller.IFSC,
		Address:       seller.Address,
	})
	if err != nil {
		return nil, err
	}

	if err = beneficiary.AttachGatewayRef(result.GatewayRef); err != nil {
		return nil, err
	}
	if err = beneficiary.ApplyVerification(payout.MapGatewayVerification(result.Status)); err != nil {
		return nil, err
	}

	if err = beneficiariesRepo.Add(ctx, beneficiary); err != nil {
		return nil, err
	}
	return beneficiary, nil
}
