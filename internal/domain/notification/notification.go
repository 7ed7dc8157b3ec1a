package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Template identifies one of the structured messages the storefront
// sends over the messaging channel
type Template string

const (
	// TemplatePaymentProof is sent by the customer announcing a bank
	// transfer proof of payment
	TemplatePaymentProof Template = "PAYMENT_PROOF"
	// TemplateOrderRequest is sent to the owner for a pay-on-delivery
	// order awaiting approval
	TemplateOrderRequest Template = "ORDER_REQUEST"
	// TemplatePaymentSuccess confirms a successful gateway payment
	TemplatePaymentSuccess Template = "PAYMENT_SUCCESS"
)

// IsValid checks if the template is known
func (t Template) IsValid() bool {
	switch t {
	case TemplatePaymentProof, TemplateOrderRequest, TemplatePaymentSuccess:
		return true
	}
	return false
}

// SummaryLine is one order line in a message
type SummaryLine struct {
	ProductName string
	Quantity    int64
	Amount      decimal.Decimal
}

// OrderSummary is the structured order content a message is composed
// from
type OrderSummary struct {
	OrderID          uuid.UUID
	ShopName         string
	CustomerName     string
	CustomerPhone    string
	DeliveryAddress  string
	Lines            []SummaryLine
	Total            decimal.Decimal
	Currency         valueobject.Currency
	PaymentReference string
}

// Message is a composed notification ready for the messaging channel
type Message struct {
	Template      Template
	RecipientName string
	Phone         string
	Body          string
	DeepLink      string
	WebLink       string
}

// Dispatcher hands structured order messages to the external messaging
// channel. Dispatch is fire-and-forget from the orchestrator's
// perspective: failures are logged by the implementation and never
// fail the checkout.
type Dispatcher interface {
	Dispatch(ctx context.Context, template Template, phone string, summary OrderSummary) error
}
