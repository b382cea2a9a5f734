package otp

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// DefaultMaxAttempts is the verification attempt ceiling per session.
const DefaultMaxAttempts = 3

// ErrSessionIsNotConstructed is returned when using an improperly initialized Session.
var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

// AttemptOutcome is the result of one code check against a session.
type AttemptOutcome int

const (
	// AttemptMatched means the code was correct; the session must be deleted
	// by the caller (single use).
	AttemptMatched AttemptOutcome = iota
	// AttemptMismatched means the code was wrong but attempts remain.
	AttemptMismatched
	// AttemptExhausted means the ceiling is reached; the session must be
	// deleted by the caller. A correct code no longer verifies.
	AttemptExhausted
)

// Session is a short-lived OTP record keyed by (phone, purpose). The store
// owns expiry (TTL or sweep); the session itself enforces the attempt
// ceiling and single use.
type Session struct {
	phone       kernel.Phone
	purpose     Purpose
	code        string
	payload     map[string]string
	attempts    int
	maxAttempts int
	createdAt   time.Time
	expiresAt   time.Time
	guard       guard.ConstructorGuard
}

// SessionKey builds the store key for a (phone, purpose) pair.
func SessionKey(phone kernel.Phone, purpose Purpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, phone)
}

// NewSession creates a session holding a freshly generated code.
//
// Parameters:
//   - phone: normalized recipient number
//   - purpose: what the code protects (must be an auth flow purpose)
//   - code: the generated numeric code
//   - payload: opaque data returned to the caller on successful verification
//     (e.g. a pending registration form); may be nil
//   - ttl: session lifetime
func NewSession(
	phone kernel.Phone,
	purpose Purpose,
	code string,
	payload map[string]string,
	ttl time.Duration,
	now time.Time,
) (*Session, error) {
	if err := errors.Join(phone.Validate(), purpose.Validate()); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("ttl")
	}

	return &Session{
		phone:       phone,
		purpose:     purpose,
		code:        code,
		payload:     payload,
		maxAttempts: DefaultMaxAttempts,
		createdAt:   now,
		expiresAt:   now.Add(ttl),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreSession reconstructs a session from the store.
func RestoreSession(
	phone kernel.Phone,
	purpose Purpose,
	code string,
	payload map[string]string,
	attempts int,
	maxAttempts int,
	createdAt time.Time,
	expiresAt time.Time,
) (*Session, error) {
	if err := errors.Join(phone.Validate(), purpose.Validate()); err != nil {
		return nil, err
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Session{
		phone:       phone,
		purpose:     purpose,
		code:        code,
		payload:     payload,
		attempts:    attempts,
		maxAttempts: maxAttempts,
		createdAt:   createdAt,
		expiresAt:   expiresAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Session was properly constructed.
func (s *Session) Validate() error {
	if s == nil {
		return ErrSessionIsNotConstructed
	}
	return s.guard.Validate(ErrSessionIsNotConstructed)
}

// Phone returns the recipient number.
func (s *Session) Phone() kernel.Phone { return s.phone }

// Purpose returns what the code protects.
func (s *Session) Purpose() Purpose { return s.purpose }

// Code returns the stored code. Exposed for persistence only.
func (s *Session) Code() string { return s.code }

// Payload returns the opaque data attached at creation.
func (s *Session) Payload() map[string]string { return s.payload }

// Attempts returns the number of failed checks so far.
func (s *Session) Attempts() int { return s.attempts }

// MaxAttempts returns the attempt ceiling.
func (s *Session) MaxAttempts() int { return s.maxAttempts }

// RemainingAttempts returns how many checks are left before exhaustion.
func (s *Session) RemainingAttempts() int {
	remaining := s.maxAttempts - s.attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// ExpiresAt returns when the session dies.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// IsExpired reports whether the session is past its lifetime. An expired
// session never verifies regardless of the code.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

// Key returns the session's store key.
func (s *Session) Key() string {
	return SessionKey(s.phone, s.purpose)
}

// CheckCode performs one verification attempt. A mismatch consumes an
// attempt; reaching the ceiling reports exhaustion, after which even the
// correct code no longer matches. The comparison is constant time.
func (s *Session) CheckCode(code string) AttemptOutcome {
	if s.attempts >= s.maxAttempts {
		return AttemptExhausted
	}

	if subtle.ConstantTimeCompare([]byte(s.code), []byte(code)) == 1 {
		return AttemptMatched
	}

	s.attempts++
	if s.attempts >= s.maxAttempts {
		return AttemptExhausted
	}
	return AttemptMismatched
}
