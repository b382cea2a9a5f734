package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
)

// ProcessPayout handles POST /api/v1/payouts/orders/:orderID. Triggers the
// settlement of one delivered order.
func (s *Server) ProcessPayout(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return respondBadRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewProcessPayoutCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.ProcessPayout.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// ProcessBatchPayouts handles POST /api/v1/payouts/batch. Runs the batch for
// today; the suffix distinguishes reruns within one day.
func (s *Server) ProcessBatchPayouts(ctx echo.Context) error {
	var body struct {
		Suffix string `json:"suffix"`
	}
	if err := ctx.Bind(&body); err != nil {
		return respondBadRequest(ctx, "invalid request body")
	}
	if body.Suffix == "" {
		body.Suffix = "1"
	}

	cmd, err := commands.NewProcessBatchPayoutsCommand(time.Now(), body.Suffix)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.ProcessBatchPayouts.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// PayoutWebhook handles POST /api/v1/webhooks/payouts. The gateway posts
// transfer status events as form fields with an HMAC signature; an event with
// a bad signature is rejected before anything is parsed out of it.
func (s *Server) PayoutWebhook(ctx echo.Context) error {
	params, err := ctx.FormParams()
	if err != nil {
		return respondBadRequest(ctx, "invalid webhook payload")
	}

	fields := make(map[string]string, len(params))
	for key := range params {
		fields[key] = params.Get(key)
	}

	signature := fields["signature"]
	if signature == "" || !s.webhooks.Verify(fields, signature) {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code: "INVALID_SIGNATURE", Message: "webhook signature verification failed",
		})
	}

	// Events arrive as TRANSFER_SUCCESS / TRANSFER_FAILED / TRANSFER_REVERSED;
	// some gateway versions send a bare status field instead.
	status := fields["status"]
	if status == "" {
		status = strings.TrimPrefix(fields["event"], "TRANSFER_")
	}

	cmd, err := commands.NewUpdatePayoutStatusCommand(
		fields["transferId"],
		status,
		fields["utr"],
		fields["errorCode"],
		fields["reason"],
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.UpdatePayoutStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

// GetSellerPayouts handles GET /api/v1/sellers/:sellerID/payouts.
func (s *Server) GetSellerPayouts(ctx echo.Context) error {
	sellerID, err := kernel.UUIDFromString(ctx.Param("sellerID"))
	if err != nil {
		return respondBadRequest(ctx, "invalid seller id")
	}

	query, err := queries.NewGetSellerPayoutsQuery(sellerID)
	if err != nil {
		return respondError(ctx, err)
	}

	payouts, err := s.handlers.GetSellerPayouts.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, payouts)
}
