package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessError(t *testing.T) {
	t.Run("carries stable code and message", func(t *testing.T) {
		err := errs.NewBusinessError(errs.CodeOrderIDMismatch, "order number confirmation does not match")

		assert.Equal(t, errs.CodeOrderIDMismatch, err.Code)
		assert.False(t, err.Retryable)
		assert.Equal(t, "ORDER_ID_MISMATCH: order number confirmation does not match", err.Error())
	})

	t.Run("retryable error wraps its cause", func(t *testing.T) {
		cause := errors.New("gateway timeout")
		err := errs.NewRetryableBusinessError(errs.CodeTransferFailed, "transfer submission failed", cause)

		assert.True(t, err.Retryable)
		require.ErrorIs(t, err, cause)
		assert.Equal(t, "TRANSFER_FAILED: transfer submission failed (cause: gateway timeout)", err.Error())
	})

	t.Run("errors.Is matches the shared error value", func(t *testing.T) {
		sentinel := errs.NewBusinessError(errs.CodeSessionNotFound, "no verification session found")
		wrapped := fmt.Errorf("verify otp: %w", sentinel)

		require.ErrorIs(t, wrapped, sentinel)
	})
}

func TestBusinessError_WithRemainingAttempts(t *testing.T) {
	sentinel := errs.NewBusinessError(errs.CodeOtpInvalid, "otp does not match")
	err := sentinel.WithRemainingAttempts(2)

	assert.Equal(t, errs.CodeOtpInvalid, err.Code)
	assert.Equal(t, "OTP_INVALID: otp does not match, 2 attempts remaining (cause: OTP_INVALID: otp does not match)", err.Error())
	require.ErrorIs(t, err, sentinel)
}

func TestBusinessCode(t *testing.T) {
	t.Run("extracts code from wrapped business error", func(t *testing.T) {
		err := fmt.Errorf("handle webhook: %w",
			errs.NewBusinessError(errs.CodeBeneficiaryNotVerified, "beneficiary pending verification"))

		assert.Equal(t, errs.CodeBeneficiaryNotVerified, errs.BusinessCode(err))
	})

	t.Run("returns empty string for plain errors", func(t *testing.T) {
		assert.Empty(t, errs.BusinessCode(errors.New("boom")))
	})
}

func TestIsRetryable(t *testing.T) {
	retryable := errs.NewRetryableBusinessError(errs.CodeTransferFailed, "bank unavailable", nil)
	terminal := errs.NewBusinessError(errs.CodeTransferFailed, "invalid beneficiary account")

	assert.True(t, errs.IsRetryable(retryable))
	assert.False(t, errs.IsRetryable(terminal))
	assert.False(t, errs.IsRetryable(errors.New("boom")))
}
