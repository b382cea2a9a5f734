package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHandoffOtpSender struct{ mock.Mock }

func (m *MockHandoffOtpSender) SendHandoffOtp(
	ctx context.Context,
	orderID kernel.UUID,
	phone kernel.Phone,
	purpose otp.Purpose,
) (kernel.UUID, error) {
	args := m.Called(ctx, orderID, phone, purpose)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

func TestRequestHandoffOtpCommandHandler_Handle_DeliveryCode(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	testOrder := newOutForDeliveryOrder(t, agentID)

	cmd, err := commands.NewRequestHandoffOtpCommand(testOrder.ID(), agentID, otp.PurposeDeliveryConfirmation)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	sender := new(MockHandoffOtpSender)
	sellers := new(MockSellerDirectory)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		sender.On("SendHandoffOtp", ctx, testOrder.ID(), testOrder.BuyerPhone(),
			otp.PurposeDeliveryConfirmation).Return(kernel.NewUUID(), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRequestHandoffOtpCommandHandler(factory, sender, sellers)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	sender.AssertExpectations(t)
	sellers.AssertNotCalled(t, "GetSeller", mock.Anything, mock.Anything)
}

func TestRequestHandoffOtpCommandHandler_Handle_UnassignedAgentIsUnauthorized(t *testing.T) {
	ctx := t.Context()

	testOrder := newOutForDeliveryOrder(t, kernel.NewUUID())
	otherAgentID := kernel.NewUUID()

	cmd, err := commands.NewRequestHandoffOtpCommand(testOrder.ID(), otherAgentID, otp.PurposeDeliveryConfirmation)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	sender := new(MockHandoffOtpSender)
	uow := new(MockOrderUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRequestHandoffOtpCommandHandler(factory, sender, new(MockSellerDirectory))
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrUnauthorizedOrder)
	sender.AssertNotCalled(t, "SendHandoffOtp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestHandoffOtpCommandHandler_Handle_BeforePickupIsTooEarly(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	testOrder := newAcceptedOrder(t, agentID)

	cmd, err := commands.NewRequestHandoffOtpCommand(testOrder.ID(), agentID, otp.PurposeDeliveryConfirmation)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRequestHandoffOtpCommandHandler(factory, new(MockHandoffOtpSender), new(MockSellerDirectory))
	err = handler.Handle(ctx, cmd)

	assert.Equal(t, errs.CodeInvalidOrderState, errs.BusinessCode(err))
}

func TestRequestHandoffOtpCommandHandler_Handle_ReturnDropGoesToSeller(t *testing.T) {
	ctx := t.Context()

	deliveryAgentID := kernel.NewUUID()
	returnAgentID := kernel.NewUUID()
	now := time.Now()

	testOrder := newDeliveredOrder(t, deliveryAgentID, now.Add(-2*time.Hour))
	require.NoError(t, testOrder.RequestReturn("damaged on arrival", now, 24*time.Hour))
	require.NoError(t, testOrder.ApproveReturn("", now))
	require.NoError(t, testOrder.AssignReturnAgent(returnAgentID, now))
	require.NoError(t, testOrder.AcceptReturnAssignment(returnAgentID, now))
	pickupOtpID := kernel.NewUUID()
	require.NoError(t, testOrder.CompleteReturnPickup(returnAgentID, "", nil, &pickupOtpID, now))

	sellerPhone := "+919811122233"
	wantPhone, err := kernel.NewPhone(sellerPhone)
	require.NoError(t, err)

	cmd, err := commands.NewRequestHandoffOtpCommand(testOrder.ID(), returnAgentID, otp.PurposeReturnDelivery)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	sender := new(MockHandoffOtpSender)
	sellers := new(MockSellerDirectory)
	uow := new(MockOrderUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	sellers.On("GetSeller", ctx, testOrder.SellerID()).Return(ports.SellerContact{
		SellerID: testOrder.SellerID(),
		Name:     "Fashion Hub",
		Phone:    sellerPhone,
	}, nil).Once()
	sender.On("SendHandoffOtp", ctx, testOrder.ID(), wantPhone,
		otp.PurposeReturnDelivery).Return(kernel.NewUUID(), nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRequestHandoffOtpCommandHandler(factory, sender, sellers)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	sender.AssertExpectations(t)
}
