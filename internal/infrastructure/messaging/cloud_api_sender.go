package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/storefront/backend/internal/domain/notification"
)

// CloudAPIConfig holds the WhatsApp Cloud API credentials and endpoint
type CloudAPIConfig struct {
	BaseURL     string // e.g. https://graph.facebook.com/v19.0
	AccessToken string
	SenderID    string // the business phone number ID messages are sent from
}

// Validate checks the config is complete enough to deliver messages
func (c *CloudAPIConfig) Validate() error {
	if c == nil {
		return errors.New("messaging: config is nil")
	}
	if c.BaseURL == "" {
		return errors.New("messaging: api base url is required")
	}
	if c.AccessToken == "" {
		return errors.New("messaging: api token is required")
	}
	if c.SenderID == "" {
		return errors.New("messaging: sender id is required")
	}
	return nil
}

// CloudAPISender delivers composed messages through the WhatsApp Cloud
// API instead of handing off to a wa.me link. The dispatcher still owns
// composition and fallback; this sender only pushes the body to the
// recipient's number.
type CloudAPISender struct {
	config     *CloudAPIConfig
	httpClient *http.Client
}

// NewCloudAPISender creates a new CloudAPISender. The client timeout is
// left to the caller's context; the dispatcher already bounds sends.
func NewCloudAPISender(config *CloudAPIConfig) *CloudAPISender {
	return &CloudAPISender{
		config:     config,
		httpClient: &http.Client{},
	}
}

type cloudAPITextMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             cloudAPIText `json:"text"`
}

type cloudAPIText struct {
	Body string `json:"body"`
}

type cloudAPIResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send posts the message body to the recipient over the Cloud API
func (s *CloudAPISender) Send(ctx context.Context, msg notification.Message) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if msg.Phone == "" {
		return errors.New("messaging: recipient phone is required")
	}

	body, err := json.Marshal(cloudAPITextMessage{
		MessagingProduct: "whatsapp",
		To:               msg.Phone,
		Type:             "text",
		Text:             cloudAPIText{Body: msg.Body},
	})
	if err != nil {
		return fmt.Errorf("messaging: marshal message: %w", err)
	}

	endpoint := strings.TrimRight(s.config.BaseURL, "/") + "/" + s.config.SenderID + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("messaging: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("messaging: send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("messaging: read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		var resp cloudAPIResponse
		if json.Unmarshal(respBody, &resp) == nil && resp.Error.Message != "" {
			return fmt.Errorf("messaging: delivery rejected (code %d): %s", resp.Error.Code, resp.Error.Message)
		}
		return fmt.Errorf("messaging: delivery failed with status %d", httpResp.StatusCode)
	}

	var resp cloudAPIResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("messaging: decode response: %w", err)
	}
	if len(resp.Messages) == 0 {
		return errors.New("messaging: response carried no message id")
	}
	return nil
}

// Ensure CloudAPISender implements Sender
var _ Sender = (*CloudAPISender)(nil)
