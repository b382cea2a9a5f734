// Package cashfree implements the payment gateway port against the Cashfree
// Payouts API. Authentication is a bearer token minted from the client id
// and secret; the token is cached and re-minted when the provider reports
// it expired.
package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"marketplace/internal/core/ports"
)

const (
	defaultBaseURL = "https://payout-api.cashfree.com/payout/v1"
	requestTimeout = 30 * time.Second
	maxAttempts    = 3
)

// PaymentGateway is the Cashfree payouts client.
type PaymentGateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
	log          *slog.Logger

	mu    sync.Mutex
	token string
}

// NewPaymentGateway creates a client against the production endpoint.
func NewPaymentGateway(clientID, clientSecret string, log *slog.Logger) *PaymentGateway {
	return NewPaymentGatewayWithBaseURL(defaultBaseURL, clientID, clientSecret, log)
}

// NewPaymentGatewayWithBaseURL creates a client against a custom endpoint,
// used by tests to point at a stub server.
func NewPaymentGatewayWithBaseURL(baseURL, clientID, clientSecret string, log *slog.Logger) *PaymentGateway {
	return &PaymentGateway{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: requestTimeout},
		log:          log.With("component", "payment-gateway"),
	}
}

type authorizeResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

type beneficiaryPayload struct {
	BeneID    string `json:"beneId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BankAcc   string `json:"bankAccount"`
	IFSC      string `json:"ifsc"`
	Address   string `json:"address1"`
	TransferM string `json:"transferMode"`
}

type transferPayload struct {
	BeneID     string `json:"beneId"`
	Amount     string `json:"amount"`
	TransferID string `json:"transferId"`
	Remarks    string `json:"remarks,omitempty"`
}

type batchTransferPayload struct {
	BatchTransferID string            `json:"batchTransferId"`
	BatchFormat     string            `json:"batchFormat"`
	Batch           []transferPayload `json:"batch"`
}

type transferData struct {
	ReferenceID string `json:"referenceId"`
	TransferID  string `json:"transferId"`
	Status      string `json:"status"`
	UTR         string `json:"utr"`
	Reason      string `json:"reason"`
}

type apiResponse struct {
	Status  string `json:"status"`
	SubCode string `json:"subCode"`
	Message string `json:"message"`
	Data    struct {
		ReferenceID     string         `json:"referenceId"`
		UTR             string         `json:"utr"`
		BeneID          string         `json:"beneId"`
		BatchTransferID string         `json:"batchTransferId"`
		Transfer        *transferData  `json:"transfer"`
		Transfers       []transferData `json:"transfers"`
	} `json:"data"`
}

// CreateBeneficiary registers a seller's bank details with the provider.
func (g *PaymentGateway) CreateBeneficiary(ctx context.Context, req ports.BeneficiaryRequest) (ports.BeneficiaryResult, error) {
	payload := beneficiaryPayload{
		BeneID:    req.BeneficiaryID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BankAcc:   req.BankAccount,
		IFSC:      req.IFSC,
		Address:   req.Address,
		TransferM: "banktransfer",
	}

	resp, err := g.post(ctx, "/addBeneficiary", payload)
	if err != nil {
		return ports.BeneficiaryResult{}, err
	}
	if resp.Status != "SUCCESS" {
		return ports.BeneficiaryResult{}, fmt.Errorf("beneficiary registration rejected: %s (%s)", resp.Message, resp.SubCode)
	}

	gatewayRef := resp.Data.BeneID
	if gatewayRef == "" {
		gatewayRef = req.BeneficiaryID
	}
	return ports.BeneficiaryResult{GatewayRef: gatewayRef, Status: resp.Status}, nil
}

// CreateTransfer submits a single transfer. The transfer id is idempotent at
// the provider so a retried submission cannot pay twice.
func (g *PaymentGateway) CreateTransfer(ctx context.Context, req ports.TransferRequest) (ports.TransferResult, error) {
	payload := transferPayload{
		BeneID:     req.BeneficiaryID,
		Amount:     fmt.Sprintf("%.2f", req.Amount.Rupees()),
		TransferID: req.TransferID,
		Remarks:    req.Remarks,
	}

	resp, err := g.post(ctx, "/requestTransfer", payload)
	if err != nil {
		return ports.TransferResult{}, err
	}
	return ports.TransferResult{
		ReferenceID: resp.Data.ReferenceID,
		Status:      resp.Status,
		UTR:         resp.Data.UTR,
		ErrorCode:   resp.SubCode,
		Message:     resp.Message,
	}, nil
}

// CreateBatchTransfer submits many transfers under one batch reference.
func (g *PaymentGateway) CreateBatchTransfer(ctx context.Context, batchRef string, transfers []ports.TransferRequest) (ports.BatchTransferResult, error) {
	payload := batchTransferPayload{
		BatchTransferID: batchRef,
		BatchFormat:     "BANK_ACCOUNT",
		Batch:           make([]transferPayload, 0, len(transfers)),
	}
	for _, transfer := range transfers {
		payload.Batch = append(payload.Batch, transferPayload{
			BeneID:     transfer.BeneficiaryID,
			Amount:     fmt.Sprintf("%.2f", transfer.Amount.Rupees()),
			TransferID: transfer.TransferID,
			Remarks:    transfer.Remarks,
		})
	}

	resp, err := g.post(ctx, "/requestBatchTransfer", payload)
	if err != nil {
		return ports.BatchTransferResult{}, err
	}
	if resp.Status != "SUCCESS" {
		return ports.BatchTransferResult{}, fmt.Errorf("batch transfer rejected: %s (%s)", resp.Message, resp.SubCode)
	}

	result := ports.BatchTransferResult{
		BatchRef:  resp.Data.BatchTransferID,
		Transfers: make(map[string]ports.TransferResult, len(resp.Data.Transfers)),
	}
	if result.BatchRef == "" {
		result.BatchRef = batchRef
	}
	for _, transfer := range resp.Data.Transfers {
		result.Transfers[transfer.TransferID] = ports.TransferResult{
			ReferenceID: transfer.ReferenceID,
			Status:      transfer.Status,
			UTR:         transfer.UTR,
			Message:     transfer.Reason,
		}
	}
	return result, nil
}

// GetTransferStatus polls the provider for a transfer's current state.
func (g *PaymentGateway) GetTransferStatus(ctx context.Context, transferID string) (ports.TransferResult, error) {
	resp, err := g.get(ctx, "/getTransferStatus?transferId="+transferID)
	if err != nil {
		return ports.TransferResult{}, err
	}
	if resp.Status != "SUCCESS" || resp.Data.Transfer == nil {
		return ports.TransferResult{}, fmt.Errorf("transfer status lookup failed: %s (%s)", resp.Message, resp.SubCode)
	}

	transfer := resp.Data.Transfer
	return ports.TransferResult{
		ReferenceID: transfer.ReferenceID,
		Status:      transfer.Status,
		UTR:         transfer.UTR,
		Message:     transfer.Reason,
	}, nil
}

func (g *PaymentGateway) post(ctx context.Context, path string, payload any) (apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return apiResponse{}, fmt.Errorf("failed to encode gateway request: %w", err)
	}
	return g.callWithRetry(ctx, http.MethodPost, path, body)
}

func (g *PaymentGateway) get(ctx context.Context, path string) (apiResponse, error) {
	return g.callWithRetry(ctx, http.MethodGet, path, nil)
}

func (g *PaymentGateway) callWithRetry(ctx context.Context, method, path string, body []byte) (apiResponse, error) {
	var resp apiResponse
	operation := func() error {
		var err error
		resp, err = g.call(ctx, method, path, body)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		g.log.Error("gateway request failed", "method", method, "path", path, "error", err)
		return apiResponse{}, err
	}
	return resp, nil
}

func (g *PaymentGateway) call(ctx context.Context, method, path string, body []byte) (apiResponse, error) {
	token, err := g.bearerToken(ctx)
	if err != nil {
		return apiResponse{}, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return apiResponse{}, backoff.Permanent(fmt.Errorf("failed to build gateway request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := g.client.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("gateway request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		g.invalidateToken()
		return apiResponse{}, fmt.Errorf("gateway token rejected")
	}
	if httpResp.StatusCode >= http.StatusInternalServerError {
		return apiResponse{}, fmt.Errorf("gateway returned status %d", httpResp.StatusCode)
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return apiResponse{}, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return resp, nil
}

// bearerToken returns the cached token, minting a new one on first use or
// after invalidation.
func (g *PaymentGateway) bearerToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token != "" {
		return g.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/authorize", nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to build authorize request: %w", err))
	}
	req.Header.Set("X-Client-Id", g.clientID)
	req.Header.Set("X-Client-Secret", g.clientSecret)

	httpResp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("authorize request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read authorize response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authorize returned status %d", httpResp.StatusCode)
	}

	var resp authorizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode authorize response: %w", err)
	}
	if resp.Data.Token == "" {
		return "", backoff.Permanent(fmt.Errorf("authorize returned no token"))
	}

	g.token = resp.Data.Token
	return g.token, nil
}

func (g *PaymentGateway) invalidateToken() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}
