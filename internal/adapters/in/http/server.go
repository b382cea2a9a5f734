// Package http is the inbound REST boundary. Handlers parse and validate the
// wire shapes, build commands and queries, and translate application errors
// into the JSON error contract; no business rules live here.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
)

// WebhookVerifier checks the signature on payment gateway webhook payloads.
type WebhookVerifier interface {
	Verify(fields map[string]string, signature string) bool
}

// Handlers bundles every command and query handler the server fronts.
type Handlers struct {
	AdvanceOrderStatus      commands.AdvanceOrderStatusCommandHandler
	CancelOrder             commands.CancelOrderCommandHandler
	AssignAgent             commands.AssignAgentCommandHandler
	RespondAssignment       commands.RespondAssignmentCommandHandler
	CompletePickup          commands.CompletePickupCommandHandler
	RequestHandoffOtp       commands.RequestHandoffOtpCommandHandler
	CompleteDelivery        commands.CompleteDeliveryCommandHandler
	RequestReturn           commands.RequestReturnCommandHandler
	ReviewReturn            commands.ReviewReturnCommandHandler
	AssignReturnAgent       commands.AssignReturnAgentCommandHandler
	RespondReturnAssignment commands.RespondReturnAssignmentCommandHandler
	CompleteReturnPickup    commands.CompleteReturnPickupCommandHandler
	FailReturnPickup        commands.FailReturnPickupCommandHandler
	CompleteReturnDelivery  commands.CompleteReturnDeliveryCommandHandler
	CloseReturn             commands.CloseReturnCommandHandler
	ProcessPayout           commands.ProcessPayoutCommandHandler
	ProcessBatchPayouts     commands.ProcessBatchPayoutsCommandHandler
	UpdatePayoutStatus      commands.UpdatePayoutStatusCommandHandler
	TrackOrder              queries.TrackOrderQueryHandler
	GetSellerPayouts        queries.GetSellerPayoutsQueryHandler
}

// Server coordinates between HTTP requests and application use cases.
type Server struct {
	handlers Handlers
	webhooks WebhookVerifier
}

// NewServer creates the HTTP server.
func NewServer(handlers Handlers, webhooks WebhookVerifier) *Server {
	return &Server{handlers: handlers, webhooks: webhooks}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	orders := api.Group("/orders/:orderID")
	orders.POST("/advance", s.AdvanceOrderStatus)
	orders.POST("/cancel", s.CancelOrder)
	orders.POST("/assignment", s.AssignAgent)
	orders.POST("/assignment/respond", s.RespondAssignment)
	orders.POST("/pickup/complete", s.CompletePickup)
	orders.POST("/handoff-otp", s.RequestHandoffOtp)
	orders.POST("/delivery/complete", s.CompleteDelivery)

	orders.POST("/return/request", s.RequestReturn)
	orders.POST("/return/review", s.ReviewReturn)
	orders.POST("/return/assignment", s.AssignReturnAgent)
	orders.POST("/return/assignment/respond", s.RespondReturnAssignment)
	orders.POST("/return/pickup/complete", s.CompleteReturnPickup)
	orders.POST("/return/pickup/fail", s.FailReturnPickup)
	orders.POST("/return/delivery/complete", s.CompleteReturnDelivery)
	orders.POST("/return/close", s.CloseReturn)

	api.POST("/payouts/orders/:orderID", s.ProcessPayout)
	api.POST("/payouts/batch", s.ProcessBatchPayouts)
	api.POST("/webhooks/payouts", s.PayoutWebhook)

	api.GET("/tracking/:orderNumber", s.TrackOrder)
	api.GET("/sellers/:sellerID/payouts", s.GetSellerPayouts)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// pathUUID parses a UUID path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

// optionalGeoPoint turns a lat/lng pair from the wire into a GeoPoint, or nil
// when the device reported no position.
func optionalGeoPoint(latitude, longitude *float64) (*kernel.GeoPoint, error) {
	if latitude == nil || longitude == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*latitude, *longitude)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
