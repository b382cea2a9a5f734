package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
)

// RequestReturn handles POST /api/v1/orders/:orderID/return/request. Only the
// buyer who placed the order may ask, and only inside the return window.
func (s *Server) RequestReturn(ctx echo.Context) error {
	var body struct {
		BuyerID string `json:"buyerId"`
		Reason  string `json:"reason"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}
	buyerID, err := kernel.UUIDFromString(body.BuyerID)
	if err != nil {
		return respondBadRequest(ctx, "invalid buyer id")
	}

	cmd, err := commands.NewRequestReturnCommand(orderID, buyerID, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.RequestReturn.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReviewReturn handles POST /api/v1/orders/:orderID/return/review.
func (s *Server) ReviewReturn(ctx echo.Context) error {
	var body struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}

	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewReviewReturnCommand(orderID, body.Approve, body.Note)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.ReviewReturn.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignReturnAgent handles POST /api/v1/orders/:orderID/return/assignment.
func (s *Server) AssignReturnAgent(ctx echo.Context) error {
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
	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return respondBadRequest(ctx, "invalid agent id")
	}

	cmd, err := commands.NewAssignReturnAgentCommand(orderID, agentID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.AssignReturnAgent.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RespondReturnAssignment handles POST /api/v1/orders/:orderID/return/assignment/respond.
func (s *Server) RespondReturnAssignment(ctx echo.Context) error {
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

	cmd, err := commands.NewRespondReturnAssignmentCommand(orderID, agentID, body.Accept, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.RespondReturnAssignment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompleteReturnPickup handles POST /api/v1/orders/:orderID/return/pickup/complete.
func (s *Server) CompleteReturnPickup(ctx echo.Context) error {
	var body struct {
		AgentID   string   `json:"agentId"`
		Notes     string   `json:"notes"`
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

	cmd, err := commands.NewCompleteReturnPickupCommand(orderID, agentID, body.Notes, location, body.OtpCode)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CompleteReturnPickup.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// FailReturnPickup handles POST /api/v1/orders/:orderID/return/pickup/fail.
func (s *Server) FailReturnPickup(ctx echo.Context) error {
	var body struct {
		AgentID string `json:"agentId"`
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

	cmd, err := commands.NewFailReturnPickupCommand(orderID, agentID, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.FailReturnPickup.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompleteReturnDelivery handles POST /api/v1/orders/:orderID/return/delivery/complete.
func (s *Server) CompleteReturnDelivery(ctx echo.Context) error {
	var body struct {
		AgentID   string   `json:"agentId"`
		Notes     string   `json:"notes"`
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

	cmd, err := commands.NewCompleteReturnDeliveryCommand(orderID, agentID, body.Notes, location, body.OtpCode)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CompleteReturnDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CloseReturn handles POST /api/v1/orders/:orderID/return/close.
func (s *Server) CloseReturn(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewCloseReturnCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CloseReturn.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
