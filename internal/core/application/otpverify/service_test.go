package otpverify_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/otpverify"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Put(ctx context.Context, session *otp.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, phone kernel.Phone, purpose otp.Purpose) (*otp.Session, error) {
	args := m.Called(ctx, phone, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*otp.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, phone kernel.Phone, purpose otp.Purpose) error {
	args := m.Called(ctx, phone, purpose)
	return args.Error(0)
}

func (m *MockSessionStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockSendRateLimiter struct{ mock.Mock }

func (m *MockSendRateLimiter) Allow(ctx context.Context, phone kernel.Phone) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

type MockSmsGateway struct{ mock.Mock }

func (m *MockSmsGateway) SendOtp(ctx context.Context, phone kernel.Phone, templateID, code string) (string, error) {
	args := m.Called(ctx, phone, templateID, code)
	return args.String(0), args.Error(1)
}

func (m *MockSmsGateway) VerifyOtp(ctx context.Context, phone kernel.Phone, code string) (bool, string, error) {
	args := m.Called(ctx, phone, code)
	return args.Bool(0), args.String(1), args.Error(2)
}

type MockVerificationRepository struct{ mock.Mock }

func (m *MockVerificationRepository) Add(ctx context.Context, v *otp.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVerificationRepository) Update(ctx context.Context, v *otp.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVerificationRepository) Get(ctx context.Context, id kernel.UUID) (*otp.Verification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*otp.Verification), args.Error(1)
}

func (m *MockVerificationRepository) GetPendingForOrder(ctx context.Context, orderID kernel.UUID, purpose otp.Purpose) (*otp.Verification, error) {
	args := m.Called(ctx, orderID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*otp.Verification), args.Error(1)
}

func (m *MockVerificationRepository) GetAllExpiredPending(ctx context.Context, cutoff time.Time) ([]*otp.Verification, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*otp.Verification), args.Error(1)
}

type MockVerificationUoW struct{ mock.Mock }

func (m *MockVerificationUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVerificationUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVerificationUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVerificationUoW) VerificationRepository() ports.VerificationRepository {
	args := m.Called()
	return args.Get(0).(ports.VerificationRepository)
}

type MockVerificationUoWFactory struct{ mock.Mock }

func (m *MockVerificationUoWFactory) Create() otpverify.VerificationUoW {
	args := m.Called()
	return args.Get(0).(otpverify.VerificationUoW)
}

func testPhone(t *testing.T) kernel.Phone {
	t.Helper()

	phone, err := kernel.NewPhone("+919876543210")
	require.NoError(t, err)
	return phone
}

func newService(
	sessions ports.SessionStore,
	limiter ports.SendRateLimiter,
	sms ports.SmsGateway,
	factory otpverify.VerificationUoWFactory,
) *otpverify.Service {
	return otpverify.NewService(sessions, limiter, sms, factory, 5*time.Minute, "TPL_OTP")
}

func TestService_SendSessionOtp_Success(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	sessions := new(MockSessionStore)
	limiter := new(MockSendRateLimiter)
	sms := new(MockSmsGateway)

	mock.InOrder(
		limiter.On("Allow", ctx, phone).Return(true, nil).Once(),
		sessions.On("Put", ctx, mock.AnythingOfType("*otp.Session"), 5*time.Minute).Return(nil).Once(),
		sms.On("SendOtp", ctx, phone, "TPL_OTP", mock.MatchedBy(func(code string) bool {
			return len(code) == 6
		})).Return("MSG_001", nil).Once(),
	)

	svc := newService(sessions, limiter, sms, new(MockVerificationUoWFactory))
	err := svc.SendSessionOtp(ctx, phone, otp.PurposeLogin, map[string]string{"userId": "42"})

	require.NoError(t, err)
	sessions.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestService_SendSessionOtp_RateLimited(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	sessions := new(MockSessionStore)
	limiter := new(MockSendRateLimiter)
	sms := new(MockSmsGateway)

	limiter.On("Allow", ctx, phone).Return(false, nil).Once()

	svc := newService(sessions, limiter, sms, new(MockVerificationUoWFactory))
	err := svc.SendSessionOtp(ctx, phone, otp.PurposeLogin, nil)

	require.ErrorIs(t, err, otpverify.ErrSendLimitExceeded)
	sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	sms.AssertNotCalled(t, "SendOtp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SendSessionOtp_RejectsHandoffPurpose(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	limiter := new(MockSendRateLimiter)
	svc := newService(new(MockSessionStore), limiter, new(MockSmsGateway), new(MockVerificationUoWFactory))

	err := svc.SendSessionOtp(ctx, phone, otp.PurposeDeliveryConfirmation, nil)

	require.Error(t, err)
	limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}

func TestService_VerifySession_MatchConsumesSession(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	session, err := otp.NewSession(phone, otp.PurposeLogin, "482913",
		map[string]string{"userId": "42"}, 5*time.Minute, time.Now())
	require.NoError(t, err)

	sessions := new(MockSessionStore)
	mock.InOrder(
		sessions.On("Get", ctx, phone, otp.PurposeLogin).Return(session, nil).Once(),
		sessions.On("Delete", ctx, phone, otp.PurposeLogin).Return(nil).Once(),
	)

	svc := newService(sessions, new(MockSendRateLimiter), new(MockSmsGateway), new(MockVerificationUoWFactory))
	payload, err := svc.VerifySession(ctx, phone, otp.PurposeLogin, "482913")

	require.NoError(t, err)
	assert.Equal(t, "42", payload["userId"])
	sessions.AssertExpectations(t)
}

func TestService_VerifySession_MismatchKeepsSession(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	session, err := otp.NewSession(phone, otp.PurposeLogin, "482913", nil, 5*time.Minute, time.Now())
	require.NoError(t, err)

	sessions := new(MockSessionStore)
	mock.InOrder(
		sessions.On("Get", ctx, phone, otp.PurposeLogin).Return(session, nil).Once(),
		sessions.On("Put", ctx, session, mock.AnythingOfType("time.Duration")).Return(nil).Once(),
	)

	svc := newService(sessions, new(MockSendRateLimiter), new(MockSmsGateway), new(MockVerificationUoWFactory))
	_, err = svc.VerifySession(ctx, phone, otp.PurposeLogin, "000000")

	require.Error(t, err)
	assert.Equal(t, errs.CodeOtpInvalid, errs.BusinessCode(err))
	assert.Contains(t, err.Error(), "2 attempts remaining")
	sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_VerifySession_ExhaustionDeletesSession(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	session, err := otp.NewSession(phone, otp.PurposeLogin, "482913", nil, 5*time.Minute, time.Now())
	require.NoError(t, err)
	// two wrong attempts already burned; the service call below is the third
	require.Equal(t, otp.AttemptMismatched, session.CheckCode("111111"))
	require.Equal(t, otp.AttemptMismatched, session.CheckCode("222222"))

	sessions := new(MockSessionStore)
	mock.InOrder(
		sessions.On("Get", ctx, phone, otp.PurposeLogin).Return(session, nil).Once(),
		sessions.On("Delete", ctx, phone, otp.PurposeLogin).Return(nil).Once(),
	)

	svc := newService(sessions, new(MockSendRateLimiter), new(MockSmsGateway), new(MockVerificationUoWFactory))
	_, err = svc.VerifySession(ctx, phone, otp.PurposeLogin, "333333")

	require.ErrorIs(t, err, otpverify.ErrMaxAttemptsExceeded)
}

func TestService_VerifySession_ExpiredLooksAbsent(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	session, err := otp.NewSession(phone, otp.PurposeLogin, "482913", nil,
		time.Minute, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	sessions := new(MockSessionStore)
	mock.InOrder(
		sessions.On("Get", ctx, phone, otp.PurposeLogin).Return(session, nil).Once(),
		sessions.On("Delete", ctx, phone, otp.PurposeLogin).Return(nil).Once(),
	)

	svc := newService(sessions, new(MockSendRateLimiter), new(MockSmsGateway), new(MockVerificationUoWFactory))
	_, err = svc.VerifySession(ctx, phone, otp.PurposeLogin, "482913")

	require.ErrorIs(t, err, otpverify.ErrSessionNotFound)
}

func TestService_VerifySession_AbsentSession(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	sessions := new(MockSessionStore)
	sessions.On("Get", ctx, phone, otp.PurposeLogin).Return(nil, nil).Once()

	svc := newService(sessions, new(MockSendRateLimiter), new(MockSmsGateway), new(MockVerificationUoWFactory))
	_, err := svc.VerifySession(ctx, phone, otp.PurposeLogin, "482913")

	require.ErrorIs(t, err, otpverify.ErrSessionNotFound)
}

func TestService_VerifyHandoff_GatewayApproves(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)
	orderID := kernel.NewUUID()

	verification, err := otp.NewVerification(kernel.NewUUID(), orderID, phone,
		otp.PurposeDeliveryConfirmation, "MSG_001", 5*time.Minute, time.Now())
	require.NoError(t, err)

	sms := new(MockSmsGateway)
	repo := new(MockVerificationRepository)
	uow := new(MockVerificationUoW)

	mock.InOrder(
		sms.On("VerifyOtp", ctx, phone, "482913").Return(true, "OTP Matched", nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VerificationRepository").Return(repo).Once(),
		repo.On("GetPendingForOrder", ctx, orderID, otp.PurposeDeliveryConfirmation).Return(verification, nil).Once(),
		repo.On("Update", ctx, verification).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	svc := newService(new(MockSessionStore), new(MockSendRateLimiter), sms, factory)
	id, err := svc.VerifyHandoff(ctx, orderID, phone, otp.PurposeDeliveryConfirmation, "482913")

	require.NoError(t, err)
	assert.True(t, id.IsEqual(verification.ID()))
	assert.Equal(t, otp.VerificationVerified, verification.Status())
	repo.AssertExpectations(t)
}

func TestService_VerifyHandoff_GatewayRejects(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)

	sms := new(MockSmsGateway)
	sms.On("VerifyOtp", ctx, phone, "000000").Return(false, "OTP Mismatch", nil).Once()

	factory := new(MockVerificationUoWFactory)

	svc := newService(new(MockSessionStore), new(MockSendRateLimiter), sms, factory)
	_, err := svc.VerifyHandoff(ctx, kernel.NewUUID(), phone, otp.PurposeDeliveryConfirmation, "000000")

	require.ErrorIs(t, err, otpverify.ErrOtpInvalid)
	// rejection never touches the audit rows
	factory.AssertNotCalled(t, "Create")
}

func TestService_SendHandoffOtp_CancelsPriorPending(t *testing.T) {
	ctx := t.Context()
	phone := testPhone(t)
	orderID := kernel.NewUUID()

	prior, err := otp.NewVerification(kernel.NewUUID(), orderID, phone,
		otp.PurposeDeliveryConfirmation, "MSG_001", 5*time.Minute, time.Now())
	require.NoError(t, err)

	limiter := new(MockSendRateLimiter)
	sms := new(MockSmsGateway)
	repo := new(MockVerificationRepository)
	uow := new(MockVerificationUoW)

	mock.InOrder(
		limiter.On("Allow", ctx, phone).Return(true, nil).Once(),
		sms.On("SendOtp", ctx, phone, "TPL_OTP", mock.AnythingOfType("string")).Return("MSG_002", nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VerificationRepository").Return(repo).Once(),
		repo.On("GetPendingForOrder", ctx, orderID, otp.PurposeDeliveryConfirmation).Return(prior, nil).Once(),
		repo.On("Update", ctx, prior).Return(nil).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*otp.Verification")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	svc := newService(new(MockSessionStore), limiter, sms, factory)
	id, err := svc.SendHandoffOtp(ctx, orderID, phone, otp.PurposeDeliveryConfirmation)

	require.NoError(t, err)
	require.NoError(t, id.Validate())
	// superseded, not erased: the audit trail keeps the old row
	assert.Equal(t, otp.VerificationCancelled, prior.Status())
}
