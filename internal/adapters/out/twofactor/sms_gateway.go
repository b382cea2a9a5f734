// Package twofactor implements the SMS gateway port against the 2Factor API.
package twofactor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"marketplace/internal/core/domain/model/kernel"
)

const (
	defaultBaseURL  = "https://2factor.in/API/V1"
	requestTimeout  = 30 * time.Second
	maxSendAttempts = 3
)

// apiResponse is the provider's envelope. Status is "Success" or "Error",
// Details carries the session id on send and the match verdict on verify.
type apiResponse struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

// SmsGateway talks to 2Factor over its URL-path style API. The api key is
// part of every request path, never a header.
type SmsGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
}

// NewSmsGateway creates a gateway with the default endpoint.
func NewSmsGateway(apiKey string, log *slog.Logger) *SmsGateway {
	return NewSmsGatewayWithBaseURL(defaultBaseURL, apiKey, log)
}

// NewSmsGatewayWithBaseURL creates a gateway against a custom endpoint,
// used by tests to point at a stub server.
func NewSmsGatewayWithBaseURL(baseURL, apiKey string, log *slog.Logger) *SmsGateway {
	return &SmsGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
		log:     log.With("component", "sms-gateway"),
	}
}

// SendOtp delivers the code to the phone using the named template and
// returns the provider's session id. Transient failures are retried up to
// three times with exponential backoff.
func (g *SmsGateway) SendOtp(ctx context.Context, phone kernel.Phone, templateID, code string) (string, error) {
	url := fmt.Sprintf("%s/%s/SMS/%s/%s/%s", g.baseURL, g.apiKey, phone.String(), code, templateID)

	var sessionID string
	operation := func() error {
		resp, err := g.call(ctx, url)
		if err != nil {
			return err
		}
		if resp.Status != "Success" {
			return backoff.Permanent(fmt.Errorf("sms provider rejected send: %s", resp.Details))
		}
		sessionID = resp.Details
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxSendAttempts-1), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		g.log.Error("failed to send otp", "phone", phone.String(), "template", templateID, "error", err)
		return "", err
	}
	return sessionID, nil
}

// VerifyOtp asks the provider whether the code matches. A mismatch is not an
// error: the verdict comes back as the boolean with the provider's message.
func (g *SmsGateway) VerifyOtp(ctx context.Context, phone kernel.Phone, code string) (bool, string, error) {
	url := fmt.Sprintf("%s/%s/SMS/VERIFY3/%s/%s", g.baseURL, g.apiKey, phone.String(), code)

	resp, err := g.call(ctx, url)
	if err != nil {
		g.log.Error("failed to verify otp", "phone", phone.String(), "error", err)
		return false, "", err
	}
	if resp.Status != "Success" {
		return false, resp.Details, nil
	}
	return true, resp.Details, nil
}

func (g *SmsGateway) call(ctx context.Context, url string) (apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apiResponse{}, fmt.Errorf("failed to build sms request: %w", err)
	}

	httpResp, err := g.client.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("sms request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("failed to read sms response: %w", err)
	}
	if httpResp.StatusCode >= http.StatusInternalServerError {
		return apiResponse{}, fmt.Errorf("sms provider returned status %d", httpResp.StatusCode)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apiResponse{}, fmt.Errorf("failed to decode sms response: %w", err)
	}
	return resp, nil
}
