package queries_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/payoutrepo"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetSellerPayoutsQueryHandlerTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	handler    queries.GetSellerPayoutsQueryHandler
	payoutRepo *payoutrepo.GormPayoutRepository
}

func (suite *GetSellerPayoutsQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&payoutrepo.PayoutDTO{}))

	suite.handler = queries.NewGetSellerPayoutsQueryHandler(db)
	suite.payoutRepo = payoutrepo.NewGormPayoutRepository(db, mockAggregateTracker{})
}

func (suite *GetSellerPayoutsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetSellerPayoutsQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE payouts CASCADE").Error)
}

func (suite *GetSellerPayoutsQueryHandlerTestSuite) TestHandle_NoPayouts_ReturnsEmptySlice() {
	query, err := queries.NewGetSellerPayoutsQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetSellerPayoutsQueryHandlerTestSuite) TestHandle_SellerWithPayouts_RecomputesCommissionSplit() {
	ctx := context.Background()
	sellerID := kernel.NewUUID()

	settled := suite.seedPayout(sellerID, "PAYOUT_ORD500000001", 100000, time.Now().Add(-48*time.Hour))
	suite.Require().NoError(settled.MarkSubmitted("REF_1", payout.TransferProcessing))
	_, err := settled.ApplyGatewayStatus(payout.TransferCompleted, "UTR123456", "", "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.payoutRepo.Update(ctx, settled))

	suite.seedPayout(sellerID, "PAYOUT_ORD500000002", 50000, time.Now().Add(-24*time.Hour))
	suite.seedPayout(kernel.NewUUID(), "PAYOUT_ORD500000003", 70000, time.Now())

	query, err := queries.NewGetSellerPayoutsQuery(sellerID)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	// Newest first.
	suite.Equal("PAYOUT_ORD500000002", result[0].TransferID)
	suite.Equal("PAYOUT_ORD500000001", result[1].TransferID)

	completed := result[1]
	suite.Equal(int64(100000), completed.OrderTotalPaise)
	suite.Equal(int64(8000), completed.CommissionPaise)
	suite.Equal(int64(1440), completed.GstPaise)
	suite.Equal(int64(90560), completed.SellerAmountPaise)
	suite.Equal("completed", completed.Status)
	suite.Equal("UTR123456", completed.Utr)
	suite.NotNil(completed.SettledAt)
}

func (suite *GetSellerPayoutsQueryHandlerTestSuite) seedPayout(
	sellerID kernel.UUID,
	transferID string,
	totalPaise int64,
	createdAt time.Time,
) *payout.Payout {
	total, err := kernel.NewMoney(totalPaise)
	suite.Require().NoError(err)

	testPayout, err := payout.NewPayout(kernel.NewUUID(), kernel.NewUUID(), sellerID,
		kernel.NewUUID(), transferID, payout.ComputeCommission(total), createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.payoutRepo.Add(context.Background(), testPayout))
	return testPayout
}

func TestGetSellerPayoutsQueryHandlerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GetSellerPayoutsQueryHandlerTestSuite))
}
