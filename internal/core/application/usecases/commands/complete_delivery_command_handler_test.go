package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	testOrder := newOutForDeliveryOrder(t, agentID)
	testAgent := newOnDutyAgent(t)
	require.NoError(t, testAgent.TakeOrder(testOrder.ID()))
	verificationID := kernel.NewUUID()

	cmd, err := commands.NewCompleteDeliveryCommand(testOrder.ID(), agentID, "482913", nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	verifier := new(MockHandoffVerifier)
	notifier := new(MockNotificationGateway)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		verifier.On("VerifyHandoff", ctx, testOrder.ID(), testOrder.BuyerPhone(),
			otp.PurposeDeliveryConfirmation, "482913").Return(verificationID, nil).Once(),
		agentRepo.On("Get", ctx, agentID).Return(testAgent, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.DeliveryAgent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("EmitToUser", ctx, testOrder.BuyerID(), mock.Anything).Return(nil).Once()
	notifier.On("EmitToSeller", ctx, testOrder.SellerID(), mock.Anything).Return(nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory, verifier, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, testOrder.Status())
	assert.Equal(t, 1, testAgent.CompletedDeliveries())
	assert.Nil(t, testAgent.CurrentOrderID())
	verifier.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_StrangerNeverBurnsCode(t *testing.T) {
	ctx := t.Context()

	assignedAgent := kernel.NewUUID()
	testOrder := newOutForDeliveryOrder(t, assignedAgent)

	cmd, err := commands.NewCompleteDeliveryCommand(testOrder.ID(), kernel.NewUUID(), "482913", nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	verifier := new(MockHandoffVerifier)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory, verifier, new(MockNotificationGateway))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrUnauthorizedOrder)
	// the gateway round trip never happened, so the buyer's code survives
	verifier.AssertNotCalled(t, "VerifyHandoff",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteDeliveryCommandHandler_Handle_InvalidOtp(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	testOrder := newOutForDeliveryOrder(t, agentID)

	cmd, err := commands.NewCompleteDeliveryCommand(testOrder.ID(), agentID, "000000", nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	verifier := new(MockHandoffVerifier)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		verifier.On("VerifyHandoff", ctx, testOrder.ID(), testOrder.BuyerPhone(),
			otp.PurposeDeliveryConfirmation, "000000").
			Return(kernel.UUID{}, errs.NewBusinessError(errs.CodeOtpInvalid, "otp code is invalid")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory, verifier, new(MockNotificationGateway))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, order.OutForDelivery, testOrder.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
