package otp

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrVerificationIsNotConstructed is returned when using an improperly
// initialized Verification.
var ErrVerificationIsNotConstructed = errors.New("Verification must be created via NewVerification constructor")

// VerificationStatus is the lifecycle state of a durable OTP audit row.
type VerificationStatus string

const (
	// VerificationPending means the code was sent and not yet confirmed.
	VerificationPending VerificationStatus = "pending"
	// VerificationVerified means the gateway confirmed the code.
	VerificationVerified VerificationStatus = "verified"
	// VerificationExpired means the code aged out unconfirmed.
	VerificationExpired VerificationStatus = "expired"
	// VerificationCancelled means the handoff was abandoned.
	VerificationCancelled VerificationStatus = "cancelled"
)

// Validate checks the status is one of the known values.
func (s VerificationStatus) Validate() error {
	switch s {
	case VerificationPending, VerificationVerified, VerificationExpired, VerificationCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("verification status",
			fmt.Errorf("%q is not a valid verification status", string(s)))
	}
}

// Verification is the durable audit record of a gateway-verified OTP. Rows
// are never deleted; resolution only moves pending to one of the three
// terminal states. The SMS gateway is the authority on whether the code
// matched; this row is a write-through record of what it said.
type Verification struct {
	id                kernel.UUID
	orderID           kernel.UUID
	phone             kernel.Phone
	purpose           Purpose
	status            VerificationStatus
	providerMessageID string
	createdAt         time.Time
	expiresAt         time.Time
	resolvedAt        *time.Time
	guard             guard.ConstructorGuard
}

// NewVerification creates a pending audit row for a handoff OTP.
func NewVerification(
	id kernel.UUID,
	orderID kernel.UUID,
	phone kernel.Phone,
	purpose Purpose,
	providerMessageID string,
	ttl time.Duration,
	now time.Time,
) (*Verification, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), phone.Validate(), purpose.Validate()); err != nil {
		return nil, err
	}
	if purpose.IsAuthFlow() {
		return nil, errs.NewValueIsInvalidErrorWithCause("purpose",
			fmt.Errorf("%s is an auth flow purpose and belongs in the session store", purpose))
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("ttl")
	}

	return &Verification{
		id:                id,
		orderID:           orderID,
		phone:             phone,
		purpose:           purpose,
		status:            VerificationPending,
		providerMessageID: providerMessageID,
		createdAt:         now,
		expiresAt:         now.Add(ttl),
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// RestoreVerification reconstructs an audit row from persistent storage.
func RestoreVerification(
	id kernel.UUID,
	orderID kernel.UUID,
	phone kernel.Phone,
	purpose Purpose,
	status VerificationStatus,
	providerMessageID string,
	createdAt time.Time,
	expiresAt time.Time,
	resolvedAt *time.Time,
) (*Verification, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), phone.Validate(),
		purpose.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Verification{
		id:                id,
		orderID:           orderID,
		phone:             phone,
		purpose:           purpose,
		status:            status,
		providerMessageID: providerMessageID,
		createdAt:         createdAt,
		expiresAt:         expiresAt,
		resolvedAt:        resolvedAt,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Verification was properly constructed.
func (v *Verification) Validate() error {
	if v == nil {
		return ErrVerificationIsNotConstructed
	}
	return v.guard.Validate(ErrVerificationIsNotConstructed)
}

// ID returns the audit row identifier.
func (v *Verification) ID() kernel.UUID { return v.id }

// OrderID returns the order whose handoff this OTP protects.
func (v *Verification) OrderID() kernel.UUID { return v.orderID }

// Phone returns the recipient number.
func (v *Verification) Phone() kernel.Phone { return v.phone }

// Purpose returns which handoff this OTP protects.
func (v *Verification) Purpose() Purpose { return v.purpose }

// Status returns the lifecycle state.
func (v *Verification) Status() VerificationStatus { return v.status }

// ProviderMessageID returns the SMS provider's message reference.
func (v *Verification) ProviderMessageID() string { return v.providerMessageID }

// CreatedAt returns when the code was sent.
func (v *Verification) CreatedAt() time.Time { return v.createdAt }

// ExpiresAt returns when an unconfirmed code ages out.
func (v *Verification) ExpiresAt() time.Time { return v.expiresAt }

// ResolvedAt returns when the row left pending, or nil.
func (v *Verification) ResolvedAt() *time.Time { return v.resolvedAt }

// IsPending reports whether the row awaits resolution.
func (v *Verification) IsPending() bool {
	return v.status == VerificationPending
}

// IsExpired reports whether an unconfirmed code has aged out.
func (v *Verification) IsExpired(now time.Time) bool {
	return v.status == VerificationPending && now.After(v.expiresAt)
}

// MarkVerified records the gateway confirming the code.
func (v *Verification) MarkVerified(now time.Time) error {
	return v.resolve(VerificationVerified, now)
}

// MarkExpired records the code aging out unconfirmed.
func (v *Verification) MarkExpired(now time.Time) error {
	return v.resolve(VerificationExpired, now)
}

// MarkCancelled records the handoff being abandoned.
func (v *Verification) MarkCancelled(now time.Time) error {
	return v.resolve(VerificationCancelled, now)
}

func (v *Verification) resolve(target VerificationStatus, now time.Time) error {
	if v.status != VerificationPending {
		return errs.NewValueIsInvalidErrorWithCause("verification status",
			fmt.Errorf("cannot move %s verification to %s", v.status, target))
	}

	resolvedAt := now
	v.status = target
	v.resolvedAt = &resolvedAt
	return nil
}
