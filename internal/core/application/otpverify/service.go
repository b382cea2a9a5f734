package otpverify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// Business errors surfaced by the service. Handlers return these exact
// values so errors.Is comparisons work.
var (
	// ErrSessionNotFound is returned when no session exists for the key, or
	// the one that did has expired. The two cases are indistinguishable to
	// the caller.
	ErrSessionNotFound = errs.NewBusinessError(errs.CodeSessionNotFound,
		"no verification session exists for this phone and purpose")

	// ErrOtpInvalid is returned when the code does not match.
	ErrOtpInvalid = errs.NewBusinessError(errs.CodeOtpInvalid,
		"otp code is invalid")

	// ErrMaxAttemptsExceeded is returned when the attempt ceiling is reached.
	// The session is gone; the caller must request a fresh code.
	ErrMaxAttemptsExceeded = errs.NewBusinessError(errs.CodeMaxAttemptsExceeded,
		"maximum verification attempts exceeded, request a new code")

	// ErrSendLimitExceeded is returned when the per-phone send rate limit
	// trips.
	ErrSendLimitExceeded = errs.NewBusinessError(errs.CodeOtpSendLimitExceeded,
		"too many otp requests for this phone, try again later")
)

// VerificationUoW manages transactions over the durable OTP audit rows.
type VerificationUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	VerificationRepository() ports.VerificationRepository
}

// VerificationUoWFactory creates new verification unit of work instances.
type VerificationUoWFactory interface {
	Create() VerificationUoW
}

// Service sends and verifies one-time passwords.
type Service struct {
	sessions   ports.SessionStore
	limiter    ports.SendRateLimiter
	sms        ports.SmsGateway
	uowFactory VerificationUoWFactory
	sessionTTL time.Duration
	templateID string
}

// NewService creates the OTP verification service. sessionTTL bounds both
// session-mode codes and gateway-mode audit rows.
func NewService(
	sessions ports.SessionStore,
	limiter ports.SendRateLimiter,
	sms ports.SmsGateway,
	uowFactory VerificationUoWFactory,
	sessionTTL time.Duration,
	templateID string,
) *Service {
	return &Service{
		sessions:   sessions,
		limiter:    limiter,
		sms:        sms,
		uowFactory: uowFactory,
		sessionTTL: sessionTTL,
		templateID: templateID,
	}
}

// SendSessionOtp generates a code for an auth flow, stores the session and
// delivers the code. An existing session for the same key is replaced, which
// also resets its attempt count.
func (s *Service) SendSessionOtp(
	ctx context.Context,
	phone kernel.Phone,
	purpose otp.Purpose,
	payload map[string]string,
) error {
	if !purpose.IsAuthFlow() {
		return errs.NewValueIsInvalidErrorWithCause("purpose",
			fmt.Errorf("%s is not an auth flow purpose", purpose))
	}

	allowed, err := s.limiter.Allow(ctx, phone)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrSendLimitExceeded
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	session, err := otp.NewSession(phone, purpose, code, payload, s.sessionTTL, time.Now())
	if err != nil {
		return err
	}
	if err = s.sessions.Put(ctx, session, s.sessionTTL); err != nil {
		return err
	}

	if _, err = s.sms.SendOtp(ctx, phone, s.templateID, code); err != nil {
		// A session without a delivered code is unusable; drop it so the
		// rate limit is the only cost of the failed send.
		_ = s.sessions.Delete(ctx, phone, purpose)
		return err
	}
	return nil
}

// VerifySession checks a code against the stored session. A match consumes
// the session and returns its payload; exhausting the attempt ceiling also
// consumes it.
func (s *Service) VerifySession(
	ctx context.Context,
	phone kernel.Phone,
	purpose otp.Purpose,
	code string,
) (map[string]string, error) {
	session, err := s.sessions.Get(ctx, phone, purpose)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired(time.Now()) {
		_ = s.sessions.Delete(ctx, phone, purpose)
		return nil, ErrSessionNotFound
	}

	switch session.CheckCode(strings.TrimSpace(code)) {
	case otp.AttemptMatched:
		if err = s.sessions.Delete(ctx, phone, purpose); err != nil {
			return nil, err
		}
		return session.Payload(), nil

	case otp.AttemptExhausted:
		if err = s.sessions.Delete(ctx, phone, purpose); err != nil {
			return nil, err
		}
		return nil, ErrMaxAttemptsExceeded

	default:
		remaining := time.Until(session.ExpiresAt())
		if err = s.sessions.Put(ctx, session, remaining); err != nil {
			return nil, err
		}
		return nil, ErrOtpInvalid.WithRemainingAttempts(session.RemainingAttempts())
	}
}

// SendHandoffOtp delivers a handoff confirmation code through the SMS
// provider and appends a pending audit row. Any earlier pending row for the
// same order and purpose is cancelled, never deleted.
func (s *Service) SendHandoffOtp(
	ctx context.Context,
	orderID kernel.UUID,
	phone kernel.Phone,
	purpose otp.Purpose,
) (kernel.UUID, error) {
	allowed, err := s.limiter.Allow(ctx, phone)
	if err != nil {
		return kernel.UUID{}, err
	}
	if !allowed {
		return kernel.UUID{}, ErrSendLimitExceeded
	}

	code, err := generateCode()
	if err != nil {
		return kernel.UUID{}, err
	}

	now := time.Now()
	providerMessageID, err := s.sms.SendOtp(ctx, phone, s.templateID, code)
	if err != nil {
		return kernel.UUID{}, err
	}

	verification, err := otp.NewVerification(kernel.NewUUID(), orderID, phone,
		purpose, providerMessageID, s.sessionTTL, now)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	verificationsRepo := uow.VerificationRepository()

	prior, err := verificationsRepo.GetPendingForOrder(ctx, orderID, purpose)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.UUID{}, err
	}
	if prior != nil {
		if err = prior.MarkCancelled(now); err != nil {
			return kernel.UUID{}, err
		}
		if err = verificationsRepo.Update(ctx, prior); err != nil {
			return kernel.UUID{}, err
		}
	}

	if err = verificationsRepo.Add(ctx, verification); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return verification.ID(), nil
}

// VerifyHandoff asks the SMS provider whether the code matches, then records
// the answer on the pending audit row. Returns the row's id for the order to
// reference. The provider is the authority; without its approval the local
// row is never marked verified.
func (s *Service) VerifyHandoff(
	ctx context.Context,
	orderID kernel.UUID,
	phone kernel.Phone,
	purpose otp.Purpose,
	code string,
) (kernel.UUID, error) {
	ok, _, err := s.sms.VerifyOtp(ctx, phone, strings.TrimSpace(code))
	if err != nil {
		return kernel.UUID{}, err
	}
	if !ok {
		return kernel.UUID{}, ErrOtpInvalid
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	verificationsRepo := uow.VerificationRepository()

	verification, err := verificationsRepo.GetPendingForOrder(ctx, orderID, purpose)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.UUID{}, err
	}
	if verification == nil {
		// The provider approved a code no send of ours is waiting on.
		return kernel.UUID{}, ErrOtpInvalid
	}

	if err = verification.MarkVerified(time.Now()); err != nil {
		return kernel.UUID{}, err
	}
	if err = verificationsRepo.Update(ctx, verification); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return verification.ID(), nil
}

// SweepExpired removes expired sessions from the store and marks aged-out
// pending audit rows expired. Returns how many records were touched.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	swept, err := s.sessions.Sweep(ctx, now)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return swept, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	verificationsRepo := uow.VerificationRepository()

	expired, err := verificationsRepo.GetAllExpiredPending(ctx, now)
	if err != nil {
		return swept, err
	}
	for _, verification := range expired {
		if err = verification.MarkExpired(now); err != nil {
			return swept, err
		}
		if err = verificationsRepo.Update(ctx, verification); err != nil {
			return swept, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return swept, err
	}
	return swept + len(expired), nil
}

// generateCode produces a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
