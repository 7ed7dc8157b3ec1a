package gateway

import (
	"fmt"
	"time"
)

const defaultPaystackBaseURL = "https://api.paystack.co"

// PaystackConfig holds Paystack API credentials and settings.
// The secret key is the platform's: it initializes transactions on
// behalf of shops and authenticates webhooks. Each shop's public key
// travels with the individual session request.
type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Validate checks the configuration
func (c *PaystackConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("paystack: secret key is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultPaystackBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}
