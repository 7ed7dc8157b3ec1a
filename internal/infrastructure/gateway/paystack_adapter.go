package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/payment"
)

const paystackInitializePath = "/transaction/initialize"

// PaystackAdapter implements payment.Gateway against the Paystack API.
// The hosted payment dialog is Paystack's; this adapter only opens
// sessions and authenticates the webhooks that resolve them.
type PaystackAdapter struct {
	config     *PaystackConfig
	httpClient *http.Client

	initOnce sync.Once
	initErr  error
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(config *PaystackConfig) *PaystackAdapter {
	return &PaystackAdapter{config: config}
}

// EnsureClientReady initializes the API client exactly once.
// Repeated calls are no-ops; a failed initialization stays failed for
// the process lifetime, mirroring a client library that did not load.
func (a *PaystackAdapter) EnsureClientReady(ctx context.Context) error {
	a.initOnce.Do(func() {
		if err := a.config.Validate(); err != nil {
			a.initErr = fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
			return
		}
		a.httpClient = &http.Client{Timeout: a.config.Timeout}
	})
	return a.initErr
}

// OpenSession opens a hosted payment session for the request
func (a *PaystackAdapter) OpenSession(ctx context.Context, req payment.HostedSessionRequest) (*payment.HostedSession, error) {
	if err := a.EnsureClientReady(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(paystackInitializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Currency:    string(req.Currency),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal initialize request: %v", payment.ErrGatewayRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+paystackInitializePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", payment.ErrGatewayRequestFailed, httpResp.StatusCode, respBody)
	}

	var resp paystackInitializeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if !resp.Status || resp.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayInvalidResponse, resp.Message)
	}

	return &payment.HostedSession{
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		OpenedAt:         time.Now(),
	}, nil
}

// VerifyCallback authenticates a webhook payload with HMAC-SHA512 over
// the raw body and maps the event to a payment outcome. A successful
// charge resolves the attempt; any other authenticated event means the
// attempt did not complete.
func (a *PaystackAdapter) VerifyCallback(payload []byte, signature string) (*payment.Outcome, error) {
	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}

	mac := hmac.New(sha512.New, []byte(a.config.SecretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, payment.ErrGatewayInvalidCallback
	}

	var event paystackWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	if event.Event != "charge.success" {
		return &payment.Outcome{Status: payment.OutcomeCancelled}, nil
	}

	var charge paystackChargeData
	if err := json.Unmarshal(event.Data, &charge); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if charge.Reference == "" {
		return nil, fmt.Errorf("%w: charge event without reference", payment.ErrGatewayInvalidResponse)
	}

	return &payment.Outcome{
		Status:    payment.OutcomeSuccess,
		Reference: charge.Reference,
	}, nil
}

// Ensure PaystackAdapter implements payment.Gateway
var _ payment.Gateway = (*PaystackAdapter)(nil)
