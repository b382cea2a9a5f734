package twofactor_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/adapters/out/twofactor"
	"marketplace/internal/core/domain/model/kernel"
)

func TestSmsGateway_SendOtp(t *testing.T) {
	phone, err := kernel.NewPhone("+919876543210")
	require.NoError(t, err)

	t.Run("should return provider session id on success", func(t *testing.T) {
		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			fmt.Fprint(w, `{"Status":"Success","Details":"SESSION_42"}`)
		}))
		defer server.Close()

		gateway := twofactor.NewSmsGatewayWithBaseURL(server.URL, "test-key", slog.Default())
		sessionID, err := gateway.SendOtp(context.Background(), phone, "DELIVERY_OTP", "482913")

		assert.NoError(t, err)
		assert.Equal(t, "SESSION_42", sessionID)
		assert.True(t, strings.Contains(requestedPath, "/test-key/SMS/"))
		assert.True(t, strings.Contains(requestedPath, "482913"))
		assert.True(t, strings.HasSuffix(requestedPath, "DELIVERY_OTP"))
	})

	t.Run("should not retry when provider rejects the send", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, `{"Status":"Error","Details":"invalid number"}`)
		}))
		defer server.Close()

		gateway := twofactor.NewSmsGatewayWithBaseURL(server.URL, "test-key", slog.Default())
		_, err := gateway.SendOtp(context.Background(), phone, "DELIVERY_OTP", "482913")

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("should retry transient server errors", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `{"Status":"Success","Details":"SESSION_99"}`)
		}))
		defer server.Close()

		gateway := twofactor.NewSmsGatewayWithBaseURL(server.URL, "test-key", slog.Default())
		sessionID, err := gateway.SendOtp(context.Background(), phone, "DELIVERY_OTP", "482913")

		assert.NoError(t, err)
		assert.Equal(t, "SESSION_99", sessionID)
		assert.Equal(t, 3, calls)
	})
}

func TestSmsGateway_VerifyOtp(t *testing.T) {
	phone, err := kernel.NewPhone("+919876543210")
	require.NoError(t, err)

	t.Run("should return true when provider matches the code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.Contains(r.URL.Path, "/SMS/VERIFY3/"))
			fmt.Fprint(w, `{"Status":"Success","Details":"OTP Matched"}`)
		}))
		defer server.Close()

		gateway := twofactor.NewSmsGatewayWithBaseURL(server.URL, "test-key", slog.Default())
		matched, message, err := gateway.VerifyOtp(context.Background(), phone, "482913")

		assert.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, "OTP Matched", message)
	})

	t.Run("should return false without error when the code mismatches", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"Status":"Error","Details":"OTP Mismatch"}`)
		}))
		defer server.Close()

		gateway := twofactor.NewSmsGatewayWithBaseURL(server.URL, "test-key", slog.Default())
		matched, message, err := gateway.VerifyOtp(context.Background(), phone, "000000")

		assert.NoError(t, err)
		assert.False(t, matched)
		assert.Equal(t, "OTP Mismatch", message)
	})
}
