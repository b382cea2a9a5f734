package postgres_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/agentrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/otprepo"
	"marketplace/internal/adapters/out/postgres/payoutrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that the unit of work holds every
// repository inside one transaction.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&agentrepo.AgentDTO{},
		&payoutrepo.PayoutDTO{},
		&payoutrepo.BatchDTO{},
		&payoutrepo.BeneficiaryDTO{},
		&otprepo.VerificationDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, agents, payouts, payout_batches, beneficiaries, otp_verifications").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createPaidOrder("ORD300000001")
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	total, err := kernel.NewMoney(100000)
	suite.Require().NoError(err)
	testPayout, err := payout.NewPayout(kernel.NewUUID(), testOrder.ID(), testOrder.SellerID(),
		kernel.NewUUID(), payout.TransferIDForOrder(testOrder.OrderNumber()),
		payout.ComputeCommission(total), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.PayoutRepository().Add(ctx, testPayout))

	suite.Require().NoError(uow.Commit(ctx))

	restoredOrder, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(restoredOrder.ID().IsEqual(testOrder.ID()))

	restoredPayout, err := suite.factory.Create().PayoutRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal("PAYOUT_ORD300000001", restoredPayout.TransferID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEveryWrite() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createPaidOrder("ORD300000002")
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	verification, err := otp.NewVerification(kernel.NewUUID(), testOrder.ID(),
		testOrder.BuyerPhone(), otp.PurposeDeliveryConfirmation, "MSG_1", 5*time.Minute, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.VerificationRepository().Add(ctx, verification))

	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	var count int64
	suite.Require().NoError(suite.db.Model(&otprepo.VerificationDTO{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsInvalidTransaction() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_DoesNotNest() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) createPaidOrder(orderNumber string) *order.Order {
	phone, err := kernel.NewPhone("+919876543210")
	suite.Require().NoError(err)
	total, err := kernel.NewMoney(100000)
	suite.Require().NoError(err)
	unitPrice, err := kernel.NewMoney(50000)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), orderNumber, kernel.NewUUID(), phone, kernel.NewUUID(),
		[]order.Item{{Name: "Wireless Mouse", Quantity: 2, UnitPrice: unitPrice}},
		total, time.Now())
	suite.Require().NoError(err)
	testOrder.MarkPaid(time.Now())
	return testOrder
}

func TestUnitOfWorkIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
