package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/pkg/errs"
)

// ErrorResponse is the JSON body for every failed request. Code is a stable
// machine-readable string; Message is for humans and may change.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// businessStatusCodes maps stable business codes to HTTP statuses. Codes not
// listed here come back as 409: the request was well-formed but the system's
// current state refuses it.
var businessStatusCodes = map[string]int{
	errs.CodeOrderNotFound:              http.StatusNotFound,
	errs.CodeUnauthorizedOrder:          http.StatusForbidden,
	errs.CodeOrderIDMismatch:            http.StatusBadRequest,
	errs.CodeMissingOrderIDVerification: http.StatusBadRequest,
	errs.CodeSessionNotFound:            http.StatusBadRequest,
	errs.CodeOtpInvalid:                 http.StatusBadRequest,
	errs.CodeMaxAttemptsExceeded:        http.StatusTooManyRequests,
	errs.CodeOtpSendLimitExceeded:       http.StatusTooManyRequests,
	errs.CodeReturnNotEligible:          http.StatusUnprocessableEntity,
	errs.CodePayoutNotEligible:          http.StatusUnprocessableEntity,
	errs.CodeBeneficiaryNotVerified:     http.StatusUnprocessableEntity,
	errs.CodeTransferFailed:             http.StatusBadGateway,
}

// respondError translates an application error into the JSON error contract.
func respondError(ctx echo.Context, err error) error {
	var business *errs.BusinessError
	if errors.As(err, &business) {
		status, ok := businessStatusCodes[business.Code]
		if !ok {
			status = http.StatusConflict
		}
		return ctx.JSON(status, ErrorResponse{Code: business.Code, Message: business.Message})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code: "NOT_FOUND", Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code: "VALIDATION_ERROR", Message: err.Error(),
		})
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code: "CONCURRENT_UPDATE", Message: "the order changed underneath this request, retry",
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code: "INTERNAL_ERROR", Message: "something went wrong",
		})
	}
}

// respondBadRequest is for malformed inputs caught before any command exists.
func respondBadRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_ERROR", Message: message})
}
