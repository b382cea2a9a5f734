package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSubmittedPayout(t *testing.T, orderID kernel.UUID) *payout.Payout {
	t.Helper()

	breakdown := payout.ComputeCommission(mustMoney(t, 100000))
	p, err := payout.NewPayout(kernel.NewUUID(), orderID, kernel.NewUUID(), kernel.NewUUID(),
		"PAYOUT_"+testOrderNumber, breakdown, time.Now())
	require.NoError(t, err)
	require.NoError(t, p.MarkSubmitted("REF_99", payout.TransferProcessing))
	return p
}

func TestUpdatePayoutStatusCommandHandler_Handle_Completed(t *testing.T) {
	ctx := t.Context()

	testOrder := newDeliveredOrder(t, kernel.NewUUID(), time.Now().Add(-72*time.Hour))
	require.NoError(t, testOrder.MarkPayoutProcessed("PAYOUT_"+testOrderNumber, payout.TransferProcessing, time.Now()))
	testPayout := testSubmittedPayout(t, testOrder.ID())

	cmd, err := commands.NewUpdatePayoutStatusCommand("PAYOUT_"+testOrderNumber, "SUCCESS", "UTR123456", "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	payoutRepo := new(MockPayoutRepository)
	notifier := new(MockNotificationGateway)
	uow := new(MockPayoutUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("GetByTransferID", ctx, "PAYOUT_"+testOrderNumber).Return(testPayout, nil).Once(),
		payoutRepo.On("Update", ctx, mock.AnythingOfType("*payout.Payout")).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("EmitToSeller", ctx, testPayout.SellerID(), mock.Anything).Return(nil).Once()

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdatePayoutStatusCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payout.TransferCompleted, testPayout.Status())
	assert.Equal(t, "UTR123456", testPayout.Utr())
	require.NotNil(t, testPayout.SettledAt())
	assert.Equal(t, payout.TransferCompleted, testOrder.PayoutMirror().Status())
}

func TestUpdatePayoutStatusCommandHandler_Handle_TerminalRedeliveryIsNoOp(t *testing.T) {
	ctx := t.Context()

	testPayout := testSubmittedPayout(t, kernel.NewUUID())
	changed, err := testPayout.ApplyGatewayStatus(payout.TransferCompleted, "UTR123456", "", "", time.Now())
	require.NoError(t, err)
	require.True(t, changed)

	cmd, err := commands.NewUpdatePayoutStatusCommand("PAYOUT_"+testOrderNumber, "SUCCESS", "UTR123456", "", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	payoutRepo := new(MockPayoutRepository)
	notifier := new(MockNotificationGateway)
	uow := new(MockPayoutUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("GetByTransferID", ctx, "PAYOUT_"+testOrderNumber).Return(testPayout, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdatePayoutStatusCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	payoutRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "EmitToSeller", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePayoutStatusCommandHandler_Handle_FailedNeverRegresses(t *testing.T) {
	ctx := t.Context()

	testPayout := testSubmittedPayout(t, kernel.NewUUID())
	changed, err := testPayout.ApplyGatewayStatus(payout.TransferFailed, "", "IMPS_MODE_FAIL", "bank offline", time.Now())
	require.NoError(t, err)
	require.True(t, changed)

	// a late PROCESSING event must not reopen the failed transfer
	cmd, err := commands.NewUpdatePayoutStatusCommand("PAYOUT_"+testOrderNumber, "PROCESSING", "", "", "")
	require.NoError(t, err)

	payoutRepo := new(MockPayoutRepository)
	uow := new(MockPayoutUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("GetByTransferID", ctx, "PAYOUT_"+testOrderNumber).Return(testPayout, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdatePayoutStatusCommandHandler(factory, new(MockNotificationGateway))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payout.TransferFailed, testPayout.Status())
	assert.True(t, testPayout.IsRetryable())
}

func TestUpdatePayoutStatusCommandHandler_Handle_UnknownTransfer(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewUpdatePayoutStatusCommand("PAYOUT_UNKNOWN", "SUCCESS", "", "", "")
	require.NoError(t, err)

	payoutRepo := new(MockPayoutRepository)
	uow := new(MockPayoutUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("GetByTransferID", ctx, "PAYOUT_UNKNOWN").Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdatePayoutStatusCommandHandler(factory, new(MockNotificationGateway))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrPayoutNotFound)
}
