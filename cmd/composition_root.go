package cmd

import (
	"log/slog"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/cashfree"
	"marketplace/internal/adapters/out/inmem"
	kafkaout "marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/sellerdir"
	"marketplace/internal/adapters/out/redisstore"
	"marketplace/internal/adapters/out/twofactor"
	"marketplace/internal/core/application/otpverify"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
)

// CompositionRoot wires adapters into application services and handlers.
// Everything is constructed once; handlers are cheap value types created on
// demand from the shared dependencies.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	sms         ports.SmsGateway
	payments    ports.PaymentGateway
	notifier    ports.NotificationGateway
	sellers     ports.SellerDirectory
	otpService  *otpverify.Service
	eligibility services.ReturnEligibility
	logger      *slog.Logger
}

// NewCompositionRoot builds the object graph. redisClient may be nil when the
// in-memory session store backend is configured.
func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) *CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)

	var sessions ports.SessionStore
	var limiter ports.SendRateLimiter
	if config.SessionStoreBackend == "redis" {
		sessions = redisstore.NewSessionStore(redisClient)
		limiter = redisstore.NewSendRateLimiter(redisClient, config.OtpSendPerHour)
	} else {
		sessions = inmem.NewSessionStore()
		limiter = inmem.NewSendRateLimiter(config.OtpSendPerMinute, config.OtpSendPerHour)
	}

	sms := twofactor.NewSmsGateway(config.SmsAPIKey, logger)
	payments := cashfree.NewPaymentGateway(config.PaymentClientID, config.PaymentClientSecret, logger)
	notifier := kafkaout.NewNotificationGateway(config.KafkaBrokers, kafkaout.Topics{
		Users:   config.KafkaUserTopic,
		Sellers: config.KafkaSellerTopic,
		Agents:  config.KafkaAgentTopic,
	}, logger)

	root := &CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  uowFactory,
		sms:         sms,
		payments:    payments,
		notifier:    notifier,
		sellers:     sellerdir.NewGormSellerDirectory(gormDB),
		eligibility: services.NewReturnEligibility(config.ReturnWindow),
		logger:      logger,
	}

	root.otpService = otpverify.NewService(sessions, limiter, sms,
		root.verificationUoWFactory(), config.OtpTTL, config.SmsTemplateID)
	return root
}

// OtpService exposes the OTP verification service for the sweep job.
func (c *CompositionRoot) OtpService() *otpverify.Service {
	return c.otpService
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) payoutUoWFactory() commands.PayoutUoWFactory {
	return FuncPayoutUoWFactory(func() commands.PayoutUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) verificationUoWFactory() otpverify.VerificationUoWFactory {
	return FuncVerificationUoWFactory(func() otpverify.VerificationUoW {
		return c.uowFactory.Create()
	})
}

// CreateHTTPHandlers builds the full handler set the HTTP server fronts.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		AdvanceOrderStatus: commands.NewAdvanceOrderStatusCommandHandler(c.orderUoWFactory(), c.notifier),
		CancelOrder:        commands.NewCancelOrderCommandHandler(c.dispatchUoWFactory(), c.notifier),
		AssignAgent:        commands.NewAssignAgentCommandHandler(c.dispatchUoWFactory(), c.notifier),
		RespondAssignment:  commands.NewRespondAssignmentCommandHandler(c.dispatchUoWFactory(), c.notifier),
		CompletePickup:     commands.NewCompletePickupCommandHandler(c.dispatchUoWFactory(), c.notifier),
		RequestHandoffOtp: commands.NewRequestHandoffOtpCommandHandler(
			c.orderUoWFactory(), c.otpService, c.sellers),
		CompleteDelivery: commands.NewCompleteDeliveryCommandHandler(
			c.dispatchUoWFactory(), c.otpService, c.notifier),
		RequestReturn: commands.NewRequestReturnCommandHandler(
			c.orderUoWFactory(), c.eligibility, c.notifier),
		ReviewReturn:      commands.NewReviewReturnCommandHandler(c.orderUoWFactory(), c.notifier),
		AssignReturnAgent: commands.NewAssignReturnAgentCommandHandler(c.orderUoWFactory(), c.notifier),
		RespondReturnAssignment: commands.NewRespondReturnAssignmentCommandHandler(
			c.orderUoWFactory(), c.notifier),
		CompleteReturnPickup: commands.NewCompleteReturnPickupCommandHandler(
			c.orderUoWFactory(), c.otpService, c.config.RequireReturnPickupOtp, c.notifier),
		FailReturnPickup: commands.NewFailReturnPickupCommandHandler(c.orderUoWFactory(), c.notifier),
		CompleteReturnDelivery: commands.NewCompleteReturnDeliveryCommandHandler(
			c.orderUoWFactory(), c.otpService, c.sellers, c.config.RequireReturnDeliveryOtp, c.notifier),
		CloseReturn: commands.NewCloseReturnCommandHandler(c.orderUoWFactory(), c.notifier),
		ProcessPayout: commands.NewProcessPayoutCommandHandler(
			c.payoutUoWFactory(), c.payments, c.sellers, c.config.PayoutDelay, c.notifier),
		ProcessBatchPayouts: commands.NewProcessBatchPayoutsCommandHandler(
			c.payoutUoWFactory(), c.payments, c.sellers, c.config.PayoutDelay, c.notifier),
		UpdatePayoutStatus: commands.NewUpdatePayoutStatusCommandHandler(c.payoutUoWFactory(), c.notifier),
		TrackOrder:         queries.NewTrackOrderQueryHandler(c.gormDB, c.eligibility),
		GetSellerPayouts:   queries.NewGetSellerPayoutsQueryHandler(c.gormDB),
	}
}

// CreateServer builds the HTTP server with the webhook verifier attached.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(c.CreateHTTPHandlers(), cashfree.NewWebhookVerifier(c.config.PaymentWebhookSecret))
}

// CreateJobManager builds the three scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	retryHandler := commands.NewRetryPayoutsCommandHandler(c.payoutUoWFactory(), c.payments, c.notifier)
	batchHandler := commands.NewProcessBatchPayoutsCommandHandler(
		c.payoutUoWFactory(), c.payments, c.sellers, c.config.PayoutDelay, c.notifier)

	return jobs.NewJobManager(
		jobs.NewOtpSweepJob(c.otpService, c.config.OtpSweepSchedule, c.logger),
		jobs.NewBatchPayoutJob(batchHandler, c.config.BatchPayoutSchedule, c.logger),
		jobs.NewPayoutRetryJob(retryHandler, c.config.PayoutRetrySchedule, c.logger),
	)
}

// Func adapters let the broad gorm unit of work satisfy each handler's
// narrow factory interface without extra wrapper types.

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW { return f() }

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW { return f() }

type FuncPayoutUoWFactory func() commands.PayoutUoW

func (f FuncPayoutUoWFactory) Create() commands.PayoutUoW { return f() }

type FuncVerificationUoWFactory func() otpverify.VerificationUoW

func (f FuncVerificationUoWFactory) Create() otpverify.VerificationUoW { return f() }
