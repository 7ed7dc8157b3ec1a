package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shop"
)

// CartLineInput represents one cart line submitted at checkout
type CartLineInput struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	ProductName    string          `json:"product_name" binding:"required,min=1,max=200"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	StockAvailable int64           `json:"stock_available"`
	Quantity       int64           `json:"quantity" binding:"required,min=1"`
}

// ContactInput represents the customer contact form
type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// InitiateCheckoutRequest represents a request to start checkout
type InitiateCheckoutRequest struct {
	Contact ContactInput    `json:"contact" binding:"required"`
	Method  string          `json:"method" binding:"required"`
	Cart    []CartLineInput `json:"cart" binding:"required,min=1"`
}

// GatewayOutcomeRequest represents the resolution of a hosted payment
// reported back by the storefront after the gateway dialog closes
type GatewayOutcomeRequest struct {
	Status    string `json:"status" binding:"required"`
	Reference string `json:"reference"`
}

// BankDetailsResponse surfaces the shop's transfer instructions
type BankDetailsResponse struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// CheckoutResponse represents the state of a checkout session
type CheckoutResponse struct {
	SessionID        uuid.UUID            `json:"session_id"`
	OrderID          uuid.UUID            `json:"order_id"`
	OrderStatus      string               `json:"order_status"`
	PaymentStatus    string               `json:"payment_status"`
	Method           string               `json:"method"`
	Total            decimal.Decimal      `json:"total"`
	Currency         string               `json:"currency"`
	AuthorizationURL string               `json:"authorization_url,omitempty"`
	BankDetails      *BankDetailsResponse `json:"bank_details,omitempty"`
	ProofRequired    bool                 `json:"proof_required"`
	Completed        bool                 `json:"completed"`
}

// ToCheckoutResponse builds the response from session and order state
func ToCheckoutResponse(s *checkout.Session, o *order.Order, requiresProof bool) CheckoutResponse {
	resp := CheckoutResponse{
		SessionID:        s.ID,
		OrderID:          o.ID,
		OrderStatus:      string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		Method:           string(o.PaymentMethod),
		Total:            o.TotalAmount,
		Currency:         string(o.Currency),
		AuthorizationURL: s.AuthorizationURL,
		ProofRequired:    requiresProof,
		Completed:        s.Completed,
	}
	if s.BankDetails != nil {
		resp.BankDetails = toBankDetailsResponse(*s.BankDetails)
	}
	return resp
}

func toBankDetailsResponse(d shop.BankDetails) *BankDetailsResponse {
	return &BankDetailsResponse{
		BankName:      d.BankName,
		AccountName:   d.AccountName,
		AccountNumber: d.AccountNumber,
	}
}
