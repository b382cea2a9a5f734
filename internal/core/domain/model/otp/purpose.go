package otp

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Purpose identifies what an OTP protects. Sessions for different purposes
// never collide: the session key is (phone, purpose).
type Purpose string

const (
	// PurposeLogin protects passwordless login.
	PurposeLogin Purpose = "login"
	// PurposeForgotPassword protects password reset.
	PurposeForgotPassword Purpose = "forgot_password"
	// PurposeRegistration protects new account phone verification.
	PurposeRegistration Purpose = "registration"
	// PurposeDeliveryConfirmation protects the buyer handoff at delivery.
	PurposeDeliveryConfirmation Purpose = "delivery_confirmation"
	// PurposeReturnPickup protects the buyer handoff when a return is collected.
	PurposeReturnPickup Purpose = "return_pickup"
	// PurposeReturnDelivery protects the seller handoff when a return comes back.
	PurposeReturnDelivery Purpose = "return_delivery"
)

// Validate checks the purpose is one of the known values.
func (p Purpose) Validate() error {
	switch p {
	case PurposeLogin, PurposeForgotPassword, PurposeRegistration,
		PurposeDeliveryConfirmation, PurposeReturnPickup, PurposeReturnDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("purpose",
			fmt.Errorf("%q is not a known otp purpose", string(p)))
	}
}

// IsAuthFlow reports whether the purpose uses the session store (true) or the
// durable gateway-verified audit trail (false).
func (p Purpose) IsAuthFlow() bool {
	switch p {
	case PurposeLogin, PurposeForgotPassword, PurposeRegistration:
		return true
	default:
		return false
	}
}

func (p Purpose) String() string {
	return string(p)
}
