package payout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// VerificationStatus is the payment gateway's verdict on a beneficiary's bank
// details.
type VerificationStatus int

const (
	// VerificationUnknown represents an invalid or undefined status.
	VerificationUnknown VerificationStatus = iota
	// VerificationPending means the gateway has not yet confirmed the bank details.
	VerificationPending
	// VerificationVerified means funds may be transferred to this beneficiary.
	VerificationVerified
	// VerificationInvalid means the gateway rejected the bank details.
	VerificationInvalid
)

func getVerificationStatusStrings() map[VerificationStatus]string {
	return map[VerificationStatus]string{
		VerificationUnknown:  "unknown",
		VerificationPending:  "pending",
		VerificationVerified: "verified",
		VerificationInvalid:  "invalid",
	}
}

// String returns the lowercase persisted name of the status.
func (s VerificationStatus) String() string {
	if str, ok := getVerificationStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the status is one of the three valid states.
func (s VerificationStatus) Validate() error {
	switch s {
	case VerificationPending, VerificationVerified, VerificationInvalid:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("verification status",
			fmt.Errorf("%d is not a valid verification status", s))
	}
}

// MapGatewayVerification converts the gateway's beneficiary verification
// vocabulary to the local one. Anything unrecognized stays pending; a
// transfer against it is held back, never sent on a guess.
func MapGatewayVerification(gatewayStatus string) VerificationStatus {
	switch strings.ToUpper(strings.TrimSpace(gatewayStatus)) {
	case "VERIFIED", "VALID", "SUCCESS":
		return VerificationVerified
	case "INVALID", "REJECTED", "FAILED":
		return VerificationInvalid
	default:
		return VerificationPending
	}
}

// ErrBeneficiaryIsNotConstructed is returned when a Beneficiary instance was
// not created through NewBeneficiary or RestoreBeneficiary.
var ErrBeneficiaryIsNotConstructed = errors.New(
	"Beneficiary must be created via NewBeneficiary or RestoreBeneficiary constructor")

// ErrBeneficiaryNotVerified is returned when a transfer is attempted against a
// beneficiary the gateway has not verified yet.
var ErrBeneficiaryNotVerified = errs.NewBusinessError(
	errs.CodeBeneficiaryNotVerified, "beneficiary bank details are not verified by the payment gateway")

// Beneficiary is a seller's registered bank-transfer destination. One exists
// per seller; it must be verified by the payment gateway before any payout
// referencing it can move money. A payout may still be recorded as pending
// while the beneficiary is mid-verification.
type Beneficiary struct {
	id            kernel.UUID
	sellerID      kernel.UUID
	gatewayRef    string
	accountHolder string
	accountNumber string
	ifsc          string
	verification  VerificationStatus
	createdAt     time.Time
	guard         guard.ConstructorGuard
}

// NewBeneficiary creates a beneficiary in pending verification state from a
// seller's bank details. The gateway reference is attached once the gateway
// acknowledges creation.
func NewBeneficiary(
	id kernel.UUID,
	sellerID kernel.UUID,
	accountHolder string,
	accountNumber string,
	ifsc string,
	now time.Time,
) (*Beneficiary, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := sellerID.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(accountHolder) == "" {
		return nil, errs.NewValueIsRequiredError("account holder")
	}
	if strings.TrimSpace(accountNumber) == "" {
		return nil, errs.NewValueIsRequiredError("account number")
	}
	if strings.TrimSpace(ifsc) == "" {
		return nil, errs.NewValueIsRequiredError("ifsc")
	}

	return &Beneficiary{
		id:            id,
		sellerID:      sellerID,
		accountHolder: strings.TrimSpace(accountHolder),
		accountNumber: strings.TrimSpace(accountNumber),
		ifsc:          strings.ToUpper(strings.TrimSpace(ifsc)),
		verification:  VerificationPending,
		createdAt:     now,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreBeneficiary reconstructs a Beneficiary from persistent storage.
func RestoreBeneficiary(
	id kernel.UUID,
	sellerID kernel.UUID,
	gatewayRef string,
	accountHolder string,
	accountNumber string,
	ifsc string,
	verification VerificationStatus,
	createdAt time.Time,
) (*Beneficiary, error) {
	if err := verification.Validate(); err != nil {
		return nil, err
	}

	beneficiary, err := NewBeneficiary(id, sellerID, accountHolder, accountNumber, ifsc, createdAt)
	if err != nil {
		return nil, err
	}

	beneficiary.gatewayRef = gatewayRef
	beneficiary.verification = verification
	return beneficiary, nil
}

// Validate ensures the Beneficiary was constructed through a constructor.
func (b *Beneficiary) Validate() error {
	if b == nil {
		return ErrBeneficiaryIsNotConstructed
	}
	return b.guard.Validate(ErrBeneficiaryIsNotConstructed)
}

// ID returns the beneficiary's unique identifier.
func (b *Beneficiary) ID() kernel.UUID { return b.id }

// SellerID returns the owning seller's identifier.
func (b *Beneficiary) SellerID() kernel.UUID { return b.sellerID }

// GatewayRef returns the payment gateway's beneficiary identifier.
func (b *Beneficiary) GatewayRef() string { return b.gatewayRef }

// AccountHolder returns the bank account holder's name.
func (b *Beneficiary) AccountHolder() string { return b.accountHolder }

// AccountNumber returns the bank account number.
func (b *Beneficiary) AccountNumber() string { return b.accountNumber }

// Ifsc returns the bank branch IFSC code.
func (b *Beneficiary) Ifsc() string { return b.ifsc }

// Verification returns the gateway's verification verdict.
func (b *Beneficiary) Verification() VerificationStatus { return b.verification }

// CreatedAt returns the creation timestamp.
func (b *Beneficiary) CreatedAt() time.Time { return b.createdAt }

// IsVerified reports whether payouts may be submitted for this beneficiary.
func (b *Beneficiary) IsVerified() bool {
	return b.verification == VerificationVerified
}

// AttachGatewayRef records the gateway's beneficiary identifier after creation
// is acknowledged.
func (b *Beneficiary) AttachGatewayRef(gatewayRef string) error {
	if strings.TrimSpace(gatewayRef) == "" {
		return errs.NewValueIsRequiredError("gateway reference")
	}
	b.gatewayRef = strings.TrimSpace(gatewayRef)
	return nil
}

// ApplyVerification records the gateway's verification verdict.
func (b *Beneficiary) ApplyVerification(status VerificationStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	b.verification = status
	return nil
}
