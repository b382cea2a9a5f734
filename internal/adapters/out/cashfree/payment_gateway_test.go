package cashfree_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/adapters/out/cashfree"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// stubGateway answers the authorize handshake and delegates everything else.
func stubGateway(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/authorize" {
			assert.Equal(t, "client-id", r.Header.Get("X-Client-Id"))
			assert.Equal(t, "client-secret", r.Header.Get("X-Client-Secret"))
			fmt.Fprint(w, `{"status":"SUCCESS","data":{"token":"TOKEN_1"}}`)
			return
		}
		assert.Equal(t, "Bearer TOKEN_1", r.Header.Get("Authorization"))
		handler(w, r)
	}))
}

func TestPaymentGateway_CreateTransfer(t *testing.T) {
	amount, err := kernel.NewMoney(90560)
	require.NoError(t, err)

	t.Run("should submit amount in rupees and return the reference", func(t *testing.T) {
		server := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/requestTransfer", r.URL.Path)
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "905.60", payload["amount"])
			assert.Equal(t, "PAYOUT_ORD100000001", payload["transferId"])
			fmt.Fprint(w, `{"status":"SUCCESS","message":"accepted","data":{"referenceId":"REF_7"}}`)
		})
		defer server.Close()

		gateway := cashfree.NewPaymentGatewayWithBaseURL(server.URL, "client-id", "client-secret", slog.Default())
		result, err := gateway.CreateTransfer(context.Background(), ports.TransferRequest{
			TransferID:    "PAYOUT_ORD100000001",
			BeneficiaryID: "BENE_1",
			Amount:        amount,
			Remarks:       "order settlement",
		})

		assert.NoError(t, err)
		assert.Equal(t, "REF_7", result.ReferenceID)
		assert.Equal(t, "SUCCESS", result.Status)
	})

	t.Run("should surface provider rejection in the result", func(t *testing.T) {
		server := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"ERROR","subCode":"422","message":"beneficiary not found","data":{}}`)
		})
		defer server.Close()

		gateway := cashfree.NewPaymentGatewayWithBaseURL(server.URL, "client-id", "client-secret", slog.Default())
		result, err := gateway.CreateTransfer(context.Background(), ports.TransferRequest{
			TransferID:    "PAYOUT_ORD100000002",
			BeneficiaryID: "BENE_MISSING",
			Amount:        amount,
		})

		assert.NoError(t, err)
		assert.Equal(t, "ERROR", result.Status)
		assert.Equal(t, "422", result.ErrorCode)
		assert.Equal(t, "beneficiary not found", result.Message)
	})

	t.Run("should retry transient server errors", func(t *testing.T) {
		var calls int
		server := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `{"status":"SUCCESS","data":{"referenceId":"REF_8"}}`)
		})
		defer server.Close()

		gateway := cashfree.NewPaymentGatewayWithBaseURL(server.URL, "client-id", "client-secret", slog.Default())
		result, err := gateway.CreateTransfer(context.Background(), ports.TransferRequest{
			TransferID:    "PAYOUT_ORD100000003",
			BeneficiaryID: "BENE_1",
			Amount:        amount,
		})

		assert.NoError(t, err)
		assert.Equal(t, "REF_8", result.ReferenceID)
		assert.Equal(t, 2, calls)
	})
}

func TestPaymentGateway_CreateBatchTransfer(t *testing.T) {
	amount, err := kernel.NewMoney(90560)
	require.NoError(t, err)

	server := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/requestBatchTransfer", r.URL.Path)
		fmt.Fprint(w, `{"status":"SUCCESS","data":{"batchTransferId":"BATCH_20260830_1","transfers":[
			{"transferId":"PAYOUT_ORD100000001","referenceId":"REF_1","status":"PENDING"},
			{"transferId":"PAYOUT_ORD100000002","referenceId":"REF_2","status":"PENDING"}]}}`)
	})
	defer server.Close()

	gateway := cashfree.NewPaymentGatewayWithBaseURL(server.URL, "client-id", "client-secret", slog.Default())
	result, err := gateway.CreateBatchTransfer(context.Background(), "BATCH_20260830_1", []ports.TransferRequest{
		{TransferID: "PAYOUT_ORD100000001", BeneficiaryID: "BENE_1", Amount: amount},
		{TransferID: "PAYOUT_ORD100000002", BeneficiaryID: "BENE_2", Amount: amount},
	})

	assert.NoError(t, err)
	assert.Equal(t, "BATCH_20260830_1", result.BatchRef)
	assert.Len(t, result.Transfers, 2)
	assert.Equal(t, "REF_1", result.Transfers["PAYOUT_ORD100000001"].ReferenceID)
}

func TestPaymentGateway_GetTransferStatus(t *testing.T) {
	server := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getTransferStatus", r.URL.Path)
		assert.Equal(t, "PAYOUT_ORD100000001", r.URL.Query().Get("transferId"))
		fmt.Fprint(w, `{"status":"SUCCESS","data":{"transfer":{"referenceId":"REF_1","status":"SUCCESS","utr":"UTR12345"}}}`)
	})
	defer server.Close()

	gateway := cashfree.NewPaymentGatewayWithBaseURL(server.URL, "client-id", "client-secret", slog.Default())
	result, err := gateway.GetTransferStatus(context.Background(), "PAYOUT_ORD100000001")

	assert.NoError(t, err)
	assert.Equal(t, "SUCCESS", result.Status)
	assert.Equal(t, "UTR12345", result.UTR)
}

func TestWebhookVerifier_Verify(t *testing.T) {
	sign := func(secret string, fields map[string]string, keys ...string) string {
		mac := hmac.New(sha256.New, []byte(secret))
		for _, key := range keys {
			mac.Write([]byte(fields[key]))
		}
		return base64.StdEncoding.EncodeToString(mac.Sum(nil))
	}

	fields := map[string]string{
		"event":      "TRANSFER_SUCCESS",
		"transferId": "PAYOUT_ORD100000001",
		"utr":        "UTR12345",
	}

	t.Run("should accept a signature over sorted field values", func(t *testing.T) {
		signature := sign("client-secret", fields, "event", "transferId", "utr")
		verifier := cashfree.NewWebhookVerifier("client-secret")
		assert.True(t, verifier.Verify(fields, signature))
	})

	t.Run("should reject a tampered payload", func(t *testing.T) {
		signature := sign("client-secret", fields, "event", "transferId", "utr")
		tampered := map[string]string{
			"event":      "TRANSFER_SUCCESS",
			"transferId": "PAYOUT_ORD100000001",
			"utr":        "UTR99999",
		}
		verifier := cashfree.NewWebhookVerifier("client-secret")
		assert.False(t, verifier.Verify(tampered, signature))
	})

	t.Run("should reject a signature from the wrong secret", func(t *testing.T) {
		signature := sign("other-secret", fields, "event", "transferId", "utr")
		verifier := cashfree.NewWebhookVerifier("client-secret")
		assert.False(t, verifier.Verify(fields, signature))
	})
}
