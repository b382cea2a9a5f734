package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newReturnPickedUpOrder advances a return through pickup so the package is
// in the agent's hands, ready for the seller drop.
func newReturnPickedUpOrder(t *testing.T, returnAgentID kernel.UUID) *order.Order {
	t.Helper()
	o := newReturnAcceptedOrder(t, returnAgentID)
	pickupOtpID := kernel.NewUUID()
	require.NoError(t, o.CompleteReturnPickup(returnAgentID, "", nil, &pickupOtpID, time.Now()))
	return o
}

func TestCompleteReturnDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	returnAgentID := kernel.NewUUID()
	testOrder := newReturnPickedUpOrder(t, returnAgentID)
	verificationID := kernel.NewUUID()

	sellerPhone := "+919811122233"
	wantPhone, err := kernel.NewPhone(sellerPhone)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteReturnDeliveryCommand(
		testOrder.ID(), returnAgentID, "handed to staff", nil, "775031")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	verifier := new(MockHandoffVerifier)
	sellers := new(MockSellerDirectory)
	notifier := new(MockNotificationGateway)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		sellers.On("GetSeller", ctx, testOrder.SellerID()).Return(ports.SellerContact{
			SellerID: testOrder.SellerID(),
			Name:     "Fashion Hub",
			Phone:    sellerPhone,
		}, nil).Once(),
		verifier.On("VerifyHandoff", ctx, testOrder.ID(), wantPhone,
			otp.PurposeReturnDelivery, "775031").Return(verificationID, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("EmitToUser", ctx, testOrder.BuyerID(), mock.Anything).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteReturnDeliveryCommandHandler(factory, verifier, sellers, true, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.ReturnedToSeller, testOrder.ReturnDetails().Status())
	verifier.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteReturnDeliveryCommandHandler_Handle_StrangerNeverBurnsCode(t *testing.T) {
	ctx := t.Context()

	testOrder := newReturnPickedUpOrder(t, kernel.NewUUID())

	cmd, err := commands.NewCompleteReturnDeliveryCommand(
		testOrder.ID(), kernel.NewUUID(), "", nil, "775031")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	verifier := new(MockHandoffVerifier)
	sellers := new(MockSellerDirectory)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteReturnDeliveryCommandHandler(
		factory, verifier, sellers, true, new(MockNotificationGateway))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrUnauthorizedOrder)
	// authorization failed before any provider traffic, so the seller's code
	// survives and the audit row stays pending
	verifier.AssertNotCalled(t, "VerifyHandoff",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sellers.AssertNotCalled(t, "GetSeller", mock.Anything, mock.Anything)
}
