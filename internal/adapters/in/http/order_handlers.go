package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/otp"
)

// AdvanceOrderStatus handles POST /api/v1/orders/:orderID/advance. The seller
// moves the order to the next seller-owned status.
func (s *Server) AdvanceOrderStatus(ctx echo.Context) error {
	var body struct {
		SellerID string `json:"sellerId"`
		Target   string `json:"target"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}
	sellerID, err := kernel.UUIDFromString(body.SellerID)
	if err != nil {
		return respondBadRequest(ctx, "invalid seller id")
	}

	var target order.Status
	switch strings.ToLower(strings.TrimSpace(body.Target)) {
	case "confirmed":
		target = order.Confirmed
	case "processing":
		target = order.Processing
	case "pickup_ready":
		target = order.PickupReady
	default:
		return respondBadRequest(ctx, "target must be confirmed, processing, or pickup_ready")
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(orderID, sellerID, target)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.AdvanceOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	var body struct {
		Actor  string `json:"actor"`
		Reason string `json:"reason"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, body.Actor, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignAgent handles POST /api/v1/orders/:orderID/assignment. Without an
// agentId in the body, dispatch picks the least loaded available agent.
func (s *Server) AssignAgent(ctx echo.Context) error {
	var body struct {
		AgentID string `json:"agentId"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}

	var cmd commands.AssignAgentCommand
	if strings.TrimSpace(body.AgentID) == "" {
		cmd, err = commands.NewAutoAssignAgentCommand(orderID)
	} else {
		var agentID kernel.UUID
		agentID, err = kernel.UUIDFromString(body.AgentID)
		if err != nil {
			return respondBadRequest(ctx, "invalid agent id")
		}
		cmd, err = commands.NewAssignAgentCommand(orderID, agentID)
	}
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.AssignAgent.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RespondAssignment handles POST /api/v1/orders/:orderID/assignment/respond.
func (s *Server) RespondAssignment(ctx echo.Context) error {
	var body struct {
		AgentID string `json:"agentId"`
		Accept  bool   `json:"accept"`
		Reason  string `json:"reason"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}
	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return respondBadRequest(ctx, "invalid agent id")
	}

	cmd, err := commands.NewRespondAssignmentCommand(orderID, agentID, body.Accept, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.RespondAssignment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompletePickup handles POST /api/v1/orders/:orderID/pickup/complete. The
// orderIdVerification field is the agent's reading of the number printed on
// the package.
func (s *Server) CompletePickup(ctx echo.Context) error {
	var body struct {
		AgentID             string `json:"agentId"`
		OrderIDVerification string `json:"orderIdVerification"`
		Notes               string `json:"notes"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}
	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return respondBadRequest(ctx, "invalid agent id")
	}

	cmd, err := commands.NewCompletePickupCommand(orderID, agentID, body.OrderIDVerification, body.Notes)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CompletePickup.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RequestHandoffOtp handles POST /api/v1/orders/:orderID/handoff-otp. Purpose
// defaults to the delivery confirmation; return agents name the return
// handoff they are at.
func (s *Server) RequestHandoffOtp(ctx echo.Context) error {
	var body struct {
		AgentID string `json:"agentId"`
		Purpose string `json:"purpose"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}
	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return respondBadRequest(ctx, "invalid agent id")
	}

	purpose := otp.PurposeDeliveryConfirmation
	if strings.TrimSpace(body.Purpose) != "" {
		purpose = otp.Purpose(strings.TrimSpace(body.Purpose))
	}

	cmd, err := commands.NewRequestHandoffOtpCommand(orderID, agentID, purpose)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.RequestHandoffOtp.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// CompleteDelivery handles POST /api/v1/orders/:orderID/delivery/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	var body struct {
		AgentID   string   `json:"agentId"`
		OtpCode   string   `json:"otpCode"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}
	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return respondBadRequest(ctx, "invalid agent id")
	}
	location, err := optionalGeoPoint(body.Latitude, body.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, agentID, body.OtpCode, location)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// TrackOrder handles GET /api/v1/tracking/:orderNumber.
func (s *Server) TrackOrder(ctx echo.Context) error {
	query, err := queries.NewTrackOrderQuery(ctx.Param("orderNumber"))
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.handlers.TrackOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}
