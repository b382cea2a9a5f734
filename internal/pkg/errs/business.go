package errs

import (
	"errors"
	"fmt"
)

// Stable machine-readable business codes surfaced to clients and operational
// tooling. Codes never change once published; messages may.
const (
	CodeOrderNotFound              = "ORDER_NOT_FOUND"
	CodeUnauthorizedOrder          = "UNAUTHORIZED_ORDER"
	CodeOrderIDMismatch            = "ORDER_ID_MISMATCH"
	CodeMissingOrderIDVerification = "MISSING_ORDER_ID_VERIFICATION"
	CodePickupAlreadyCompleted     = "PICKUP_ALREADY_COMPLETED"
	CodeInvalidOrderState          = "INVALID_ORDER_STATE"
	CodeSessionNotFound            = "SESSION_NOT_FOUND"
	CodeOtpInvalid                 = "OTP_INVALID"
	CodeMaxAttemptsExceeded        = "MAX_ATTEMPTS_EXCEEDED"
	CodeOtpSendLimitExceeded       = "OTP_SEND_LIMIT_EXCEEDED"
	CodeReturnNotEligible          = "RETURN_NOT_ELIGIBLE"
	CodeBeneficiaryNotVerified     = "BENEFICIARY_NOT_VERIFIED"
	CodePayoutAlreadyProcessed     = "PAYOUT_ALREADY_PROCESSED"
	CodePayoutNotEligible          = "PAYOUT_NOT_ELIGIBLE"
	CodeTransferFailed             = "TRANSFER_FAILED"
	CodeAgentNotAvailable          = "AGENT_NOT_AVAILABLE"
)

// BusinessError is a semantic failure of a business operation. Every instance
// carries a stable machine-readable code alongside a human-readable message,
// and money-movement failures expose whether a retry is safe.
//
// Handlers return the same *BusinessError value for the same condition, so
// errors.Is comparisons against package-level error variables work as usual.
type BusinessError struct {
	Code      string
	Message   string
	Retryable bool
	Cause     error
}

// NewBusinessError creates a non-retryable business error.
func NewBusinessError(code, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}

// NewRetryableBusinessError creates a business error that operational tooling
// may safely retry.
func NewRetryableBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{Code: code, Message: message, Retryable: true, Cause: cause}
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", e.Code, e.Message, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", e.Code, e.Message))
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

// WithRemainingAttempts returns a copy of the error with the remaining-attempts
// count appended to the message. Used by OTP verification to tell the caller
// how many tries are left without changing the stable code.
func (e *BusinessError) WithRemainingAttempts(remaining int) *BusinessError {
	return &BusinessError{
		Code:      e.Code,
		Message:   fmt.Sprintf("%s, %d attempts remaining", e.Message, remaining),
		Retryable: e.Retryable,
		Cause:     e,
	}
}

// BusinessCode extracts the stable code from err if it is (or wraps) a
// BusinessError. Returns an empty string otherwise.
func BusinessCode(err error) string {
	var business *BusinessError
	if errors.As(err, &business) {
		return business.Code
	}
	return ""
}

// IsRetryable reports whether err is a business error flagged as safely
// retryable.
func IsRetryable(err error) bool {
	var business *BusinessError
	if errors.As(err, &business) {
		return business.Retryable
	}
	return false
}
