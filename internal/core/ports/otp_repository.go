package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"
)

// VerificationRepository defines the persistence contract for durable OTP
// audit rows. Rows are appended and marked, never deleted.
type VerificationRepository interface {
	// Add persists a new verification audit row.
	Add(ctx context.Context, aggregate *otp.Verification) error

	// Update persists a resolution (verified, expired, cancelled).
	Update(ctx context.Context, aggregate *otp.Verification) error

	// Get retrieves a verification by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*otp.Verification, error)

	// GetPendingForOrder retrieves the latest pending verification for an
	// order and purpose, if one exists.
	GetPendingForOrder(ctx context.Context, orderID kernel.UUID, purpose otp.Purpose) (*otp.Verification, error)

	// GetAllExpiredPending retrieves pending rows whose code aged out at or
	// before the cutoff. The sweep job marks them expired.
	GetAllExpiredPending(ctx context.Context, cutoff time.Time) ([]*otp.Verification, error)
}

// SessionStore is the short-lived OTP session store keyed by (phone,
// purpose). Implementations either honor TTL server-side (redis) or rely on
// the periodic sweep (in-memory).
type SessionStore interface {
	// Put stores a session under its key with the given lifetime.
	Put(ctx context.Context, session *otp.Session, ttl time.Duration) error

	// Get retrieves the session for a key. Returns nil without error when
	// the key is absent or already expired.
	Get(ctx context.Context, phone kernel.Phone, purpose otp.Purpose) (*otp.Session, error)

	// Delete removes the session for a key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, phone kernel.Phone, purpose otp.Purpose) error

	// Sweep removes expired sessions. TTL-capable stores implement it as a
	// no-op.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// SendRateLimiter guards the OTP send path per phone number.
type SendRateLimiter interface {
	// Allow records a send attempt and reports whether it is within the
	// per-minute and per-hour ceilings.
	Allow(ctx context.Context, phone kernel.Phone) (bool, error)
}
