package payoutrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/payoutrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// PayoutRepositoryIntegrationTestSuite provides integration tests for
// PayoutRepository and BeneficiaryRepository using a PostgreSQL container.
type PayoutRepositoryIntegrationTestSuite struct {
	suite.Suite
	container     *postgres.PostgresContainer
	db            *gorm.DB
	payouts       *payoutrepo.GormPayoutRepository
	beneficiaries *payoutrepo.GormBeneficiaryRepository
	tracker       *MockAggregateTracker
}

func (suite *PayoutRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&payoutrepo.PayoutDTO{}, &payoutrepo.BatchDTO{}, &payoutrepo.BeneficiaryDTO{}))
}

func (suite *PayoutRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE payouts, payout_batches, beneficiaries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.payouts = payoutrepo.NewGormPayoutRepository(suite.db, suite.tracker)
	suite.beneficiaries = payoutrepo.NewGormBeneficiaryRepository(suite.db, suite.tracker)
}

func (suite *PayoutRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestAddAndGet_RecomputesBreakdownFromTotal() {
	ctx := context.Background()

	testPayout := suite.createPendingPayout("PAYOUT_ORD200000001", 100000)
	suite.Require().NoError(suite.payouts.Add(ctx, testPayout))

	restored, err := suite.payouts.Get(ctx, testPayout.ID())
	suite.Require().NoError(err)

	breakdown := restored.Breakdown()
	suite.Equal(int64(100000), breakdown.OrderTotal.Paise())
	suite.Equal(int64(8000), breakdown.PlatformCommission.Paise())
	suite.Equal(int64(1440), breakdown.Gst.Paise())
	suite.Equal(int64(90560), breakdown.SellerAmount.Paise())
	suite.Equal(payout.TransferPending, restored.Status())
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestGetByTransferID_ExistingPayout_Success() {
	ctx := context.Background()

	testPayout := suite.createPendingPayout("PAYOUT_ORD200000002", 50000)
	suite.Require().NoError(suite.payouts.Add(ctx, testPayout))

	restored, err := suite.payouts.GetByTransferID(ctx, "PAYOUT_ORD200000002")
	suite.Require().NoError(err)
	suite.True(restored.ID().IsEqual(testPayout.ID()))
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestGetByTransferID_Unknown_ReturnsObjectNotFound() {
	_, err := suite.payouts.GetByTransferID(context.Background(), "PAYOUT_NOPE")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestUpdate_SubmittedPayout_RoundTripsGatewayFields() {
	ctx := context.Background()

	testPayout := suite.createPendingPayout("PAYOUT_ORD200000003", 50000)
	suite.Require().NoError(suite.payouts.Add(ctx, testPayout))

	suite.Require().NoError(testPayout.MarkSubmitted("REF_42", payout.TransferProcessing))
	suite.Require().NoError(suite.payouts.Update(ctx, testPayout))

	restored, err := suite.payouts.Get(ctx, testPayout.ID())
	suite.Require().NoError(err)
	suite.Equal(payout.TransferProcessing, restored.Status())
	suite.Equal("REF_42", restored.GatewayRef())
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestGetAllRetryable_SelectsFailedRetryableAndUnsubmitted() {
	ctx := context.Background()

	// Failed with a retryable error code.
	retryable := suite.createPendingPayout("PAYOUT_ORD200000010", 50000)
	suite.Require().NoError(retryable.MarkSubmitted("REF_A", payout.TransferProcessing))
	_, err := retryable.ApplyGatewayStatus(payout.TransferFailed, "", "IMPS_MODE_FAIL", "bank offline", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.payouts.Add(ctx, retryable))

	// Pending, never handed to the gateway.
	held := suite.createPendingPayout("PAYOUT_ORD200000011", 50000)
	suite.Require().NoError(suite.payouts.Add(ctx, held))

	// Processing at the gateway, nothing to retry.
	processing := suite.createPendingPayout("PAYOUT_ORD200000012", 50000)
	suite.Require().NoError(processing.MarkSubmitted("REF_B", payout.TransferProcessing))
	suite.Require().NoError(suite.payouts.Add(ctx, processing))

	candidates, err := suite.payouts.GetAllRetryable(ctx)
	suite.Require().NoError(err)

	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.TransferID())
	}
	suite.ElementsMatch([]string{"PAYOUT_ORD200000010", "PAYOUT_ORD200000011"}, ids)
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestBatch_AddAndGet_RoundTrips() {
	ctx := context.Background()
	runDate := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	batch, err := payout.NewPayoutBatch(kernel.NewUUID(), payout.BatchRef(runDate, "1"), runDate)
	suite.Require().NoError(err)
	amount, err := kernel.NewMoney(90560)
	suite.Require().NoError(err)
	batch.Include(amount)
	batch.Include(amount)

	suite.Require().NoError(suite.payouts.AddBatch(ctx, batch))

	restored, err := suite.payouts.GetBatch(ctx, batch.ID())
	suite.Require().NoError(err)
	suite.Equal("BATCH_20260830_1", restored.BatchRef())
	suite.Equal(2, restored.PayoutCount())
	suite.Equal(int64(181120), restored.TotalAmount().Paise())
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestBeneficiary_GetBySellerID_RoundTrips() {
	ctx := context.Background()
	sellerID := kernel.NewUUID()

	beneficiary, err := payout.NewBeneficiary(kernel.NewUUID(), sellerID,
		"Sharma Electronics", "50100123456789", "HDFC0001234", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(beneficiary.AttachGatewayRef("BENE_001"))
	suite.Require().NoError(beneficiary.ApplyVerification(payout.VerificationVerified))

	suite.Require().NoError(suite.beneficiaries.Add(ctx, beneficiary))

	restored, err := suite.beneficiaries.GetBySellerID(ctx, sellerID)
	suite.Require().NoError(err)
	suite.Equal("BENE_001", restored.GatewayRef())
	suite.True(restored.IsVerified())
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestBeneficiary_UnknownSeller_ReturnsObjectNotFound() {
	_, err := suite.beneficiaries.GetBySellerID(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// createPendingPayout builds a pending payout over the given order total.
func (suite *PayoutRepositoryIntegrationTestSuite) createPendingPayout(transferID string, totalPaise int64) *payout.Payout {
	total, err := kernel.NewMoney(totalPaise)
	suite.Require().NoError(err)

	testPayout, err := payout.NewPayout(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.NewUUID(), transferID, payout.ComputeCommission(total), time.Now())
	suite.Require().NoError(err)
	return testPayout
}

func TestPayoutRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PayoutRepositoryIntegrationTestSuite))
}
