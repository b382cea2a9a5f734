package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllPayoutEligible(ctx context.Context, deliveredBefore time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, deliveredBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAssignedToAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.DeliveryAgent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.DeliveryAgent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.DeliveryAgent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.DeliveryAgent), args.Error(1)
}

func (m *MockAgentRepository) GetAllAvailable(ctx context.Context) ([]*agent.DeliveryAgent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agent.DeliveryAgent), args.Error(1)
}

type MockPayoutRepository struct{ mock.Mock }

func (m *MockPayoutRepository) Add(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) Update(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) GetByTransferID(ctx context.Context, transferID string) (*payout.Payout, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) GetAllRetryable(ctx context.Context) ([]*payout.Payout, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) AddBatch(ctx context.Context, b *payout.PayoutBatch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockPayoutRepository) UpdateBatch(ctx context.Context, b *payout.PayoutBatch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockPayoutRepository) GetBatch(ctx context.Context, id kernel.UUID) (*payout.PayoutBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.PayoutBatch), args.Error(1)
}

type MockBeneficiaryRepository struct{ mock.Mock }

func (m *MockBeneficiaryRepository) Add(ctx context.Context, b *payout.Beneficiary) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBeneficiaryRepository) Update(ctx context.Context, b *payout.Beneficiary) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBeneficiaryRepository) GetBySellerID(ctx context.Context, sellerID kernel.UUID) (*payout.Beneficiary, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Beneficiary), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDispatchUoW struct{ mock.Mock }

func (m *MockDispatchUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockDispatchUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockPayoutUoW struct{ mock.Mock }

func (m *MockPayoutUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPayoutUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPayoutUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPayoutUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockPayoutUoW) PayoutRepository() ports.PayoutRepository {
	args := m.Called()
	return args.Get(0).(ports.PayoutRepository)
}

func (m *MockPayoutUoW) BeneficiaryRepository() ports.BeneficiaryRepository {
	args := m.Called()
	return args.Get(0).(ports.BeneficiaryRepository)
}

type MockPayoutUoWFactory struct{ mock.Mock }

func (m *MockPayoutUoWFactory) Create() commands.PayoutUoW {
	args := m.Called()
	return args.Get(0).(commands.PayoutUoW)
}

type MockNotificationGateway struct{ mock.Mock }

func (m *MockNotificationGateway) EmitToUser(ctx context.Context, userID kernel.UUID, n ports.Notification) error {
	args := m.Called(ctx, userID, n)
	return args.Error(0)
}

func (m *MockNotificationGateway) EmitToSeller(ctx context.Context, sellerID kernel.UUID, n ports.Notification) error {
	args := m.Called(ctx, sellerID, n)
	return args.Error(0)
}

func (m *MockNotificationGateway) EmitToAgent(ctx context.Context, agentID kernel.UUID, n ports.Notification) error {
	args := m.Called(ctx, agentID, n)
	return args.Error(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreateBeneficiary(ctx context.Context, req ports.BeneficiaryRequest) (ports.BeneficiaryResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.BeneficiaryResult), args.Error(1)
}

func (m *MockPaymentGateway) CreateTransfer(ctx context.Context, req ports.TransferRequest) (ports.TransferResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.TransferResult), args.Error(1)
}

func (m *MockPaymentGateway) CreateBatchTransfer(ctx context.Context, batchRef string, transfers []ports.TransferRequest) (ports.BatchTransferResult, error) {
	args := m.Called(ctx, batchRef, transfers)
	return args.Get(0).(ports.BatchTransferResult), args.Error(1)
}

func (m *MockPaymentGateway) GetTransferStatus(ctx context.Context, transferID string) (ports.TransferResult, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).(ports.TransferResult), args.Error(1)
}

type MockSellerDirectory struct{ mock.Mock }

func (m *MockSellerDirectory) GetSeller(ctx context.Context, sellerID kernel.UUID) (ports.SellerContact, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(ports.SellerContact), args.Error(1)
}

type MockHandoffVerifier struct{ mock.Mock }

func (m *MockHandoffVerifier) VerifyHandoff(
	ctx context.Context,
	orderID kernel.UUID,
	phone kernel.Phone,
	purpose otp.Purpose,
	code string,
) (kernel.UUID, error) {
	args := m.Called(ctx, orderID, phone, purpose, code)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

const testOrderNumber = "ORD123456789"

// newCreatedOrder builds a freshly placed paid order.
func newCreatedOrder(t *testing.T) *order.Order {
	t.Helper()

	phone, err := kernel.NewPhone("+919876543210")
	require.NoError(t, err)
	total, err := kernel.NewMoney(100000)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), testOrderNumber, kernel.NewUUID(),
		phone, kernel.NewUUID(),
		[]order.Item{{Name: "Wireless Mouse", Quantity: 2, UnitPrice: mustMoney(t, 50000)}},
		total, time.Now())
	require.NoError(t, err)
	o.MarkPaid(time.Now())
	return o
}

// newPickupReadyOrder advances a created order to PickupReady.
func newPickupReadyOrder(t *testing.T) *order.Order {
	t.Helper()

	o := newCreatedOrder(t)
	now := time.Now()
	require.NoError(t, o.Confirm(now))
	require.NoError(t, o.StartProcessing(now))
	require.NoError(t, o.ReadyForPickup(now))
	return o
}

// newAcceptedOrder advances an order to Accepted for the given agent.
func newAcceptedOrder(t *testing.T, agentID kernel.UUID) *order.Order {
	t.Helper()

	o := newPickupReadyOrder(t)
	now := time.Now()
	require.NoError(t, o.AssignAgent(agentID, now))
	require.NoError(t, o.AcceptAssignment(agentID, now))
	return o
}

// newOutForDeliveryOrder advances an order past a completed pickup.
func newOutForDeliveryOrder(t *testing.T, agentID kernel.UUID) *order.Order {
	t.Helper()

	o := newAcceptedOrder(t, agentID)
	require.NoError(t, o.CompletePickup(agentID, testOrderNumber, "", time.Now()))
	return o
}

// newDeliveredOrder advances an order to Delivered at the given time.
func newDeliveredOrder(t *testing.T, agentID kernel.UUID, deliveredAt time.Time) *order.Order {
	t.Helper()

	o := newOutForDeliveryOrder(t, agentID)
	require.NoError(t, o.CompleteDelivery(agentID, nil, kernel.NewUUID(), deliveredAt))
	return o
}

// newOnDutyAgent builds an available agent with free hands.
func newOnDutyAgent(t *testing.T) *agent.DeliveryAgent {
	t.Helper()

	phone, err := kernel.NewPhone("+919812345678")
	require.NoError(t, err)
	a, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Ravi Kumar", phone, agent.VehicleMotorcycle)
	require.NoError(t, err)
	a.GoOnDuty()
	return a
}

func mustMoney(t *testing.T, paise int64) kernel.Money {
	t.Helper()

	m, err := kernel.NewMoney(paise)
	require.NoError(t, err)
	return m
}
