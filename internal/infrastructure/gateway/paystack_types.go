package gateway

import "encoding/json"

// paystackInitializeRequest is the body for POST /transaction/initialize
type paystackInitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // minor units
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// paystackInitializeResponse is the envelope returned by the
// initialize endpoint
type paystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// paystackWebhookEvent is the envelope of a webhook callback
type paystackWebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// paystackChargeData is the data payload of a charge event
type paystackChargeData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
